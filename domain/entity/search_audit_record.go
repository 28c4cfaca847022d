package entity

import "time"

// VerificationOutcome is the internal tag of a verification attempt. External
// callers only ever see authorized or not authorized.
type VerificationOutcome string

const (
	OutcomeVerified         VerificationOutcome = "verified"
	OutcomeAuditorNotFound  VerificationOutcome = "auditor_not_found"
	OutcomeNoActiveKey      VerificationOutcome = "no_active_key"
	OutcomeSignatureInvalid VerificationOutcome = "signature_invalid"
)

// RejectionOutcomes lists every rejection tag, in reporting order.
var RejectionOutcomes = []VerificationOutcome{
	OutcomeAuditorNotFound,
	OutcomeNoActiveKey,
	OutcomeSignatureInvalid,
}

func (o VerificationOutcome) IsVerified() bool {
	return o == OutcomeVerified
}

// SearchAuditRecord is written for every external search attempt and never
// modified afterwards.
type SearchAuditRecord struct {
	ID             string              `json:"id"`
	AuditorID      int64               `json:"auditor_id"`
	KeyVersionUsed int                 `json:"key_version_used"`
	KeywordHash    string              `json:"keyword_hash"`
	Signature      string              `json:"signature"`
	Verified       bool                `json:"verified"`
	Outcome        VerificationOutcome `json:"outcome"`
	DurationMs     float64             `json:"duration_ms"`
	Timestamp      time.Time           `json:"timestamp"`
}

func NewSearchAuditRecord(id string, auditorID int64, keyVersion int, keywordHash, signature string, outcome VerificationOutcome, duration time.Duration, now time.Time) *SearchAuditRecord {
	return &SearchAuditRecord{
		ID:             id,
		AuditorID:      auditorID,
		KeyVersionUsed: keyVersion,
		KeywordHash:    keywordHash,
		Signature:      signature,
		Verified:       outcome.IsVerified(),
		Outcome:        outcome,
		DurationMs:     float64(duration.Microseconds()) / 1000.0,
		Timestamp:      now,
	}
}
