package inbound

import (
	"context"
	"time"

	"github.com/securematch/securematch/domain/entity"
)

type InternalMetricsResponse struct {
	SystemMetrics entity.SystemMetrics `json:"system_metrics"`
	Auditors      []AuditorListItem    `json:"auditors"`
}

// ExternalSystemMetrics is the subset of SystemMetrics shown to auditors.
type ExternalSystemMetrics struct {
	TotalDocuments          int        `json:"total_documents"`
	TotalTokens             int        `json:"total_tokens"`
	ExternalSearchesLast24h int        `json:"external_searches_last_24h"`
	LastIndexUpdate         *time.Time `json:"last_index_update"`
}

type ExternalMetricsResponse struct {
	SystemMetrics ExternalSystemMetrics `json:"system_metrics"`
}

type MetricsUseCase interface {
	InternalMetrics(ctx context.Context) (*InternalMetricsResponse, error)
	ExternalMetrics(ctx context.Context) (*ExternalMetricsResponse, error)
}
