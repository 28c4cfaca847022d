package entity

import "time"

// AuditSummary is a rollup of SearchAuditRecords inside a window.
type AuditSummary struct {
	Total              int
	Failed             int
	AvgDurationMs      float64
	RejectionsByReason map[VerificationOutcome]int
}

// IndexStats describes the document index owned by the ingestion side.
type IndexStats struct {
	TotalDocuments  int
	TotalTokens     int
	ExternalTokens  int
	LastIndexUpdate *time.Time
}

// SystemMetrics is derived on every read and never stored.
type SystemMetrics struct {
	TotalDocuments                int            `json:"total_documents"`
	TotalTokens                   int            `json:"total_tokens"`
	ExternalTokens                int            `json:"external_tokens"`
	ExternalSearchesLast24h       int            `json:"external_searches_last_24h"`
	FailedExternalSearchesLast24h int            `json:"failed_external_searches_last_24h"`
	AvgExternalSearchMs           float64        `json:"avg_external_search_ms"`
	LastIndexUpdate               *time.Time     `json:"last_index_update"`
	ActiveAuditors                int            `json:"active_auditors"`
	RejectionsByReason            map[string]int `json:"rejections_by_reason"`
	Window                        string         `json:"window"`
	GeneratedAt                   time.Time      `json:"generated_at"`
}

// SearchResult is a document reference returned by the search collaborator.
type SearchResult struct {
	DocumentID int64     `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}
