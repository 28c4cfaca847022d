package entity

import (
	"strings"
	"time"
)

type AuditorStatus string

const (
	AuditorStatusActive  AuditorStatus = "active"
	AuditorStatusDeleted AuditorStatus = "deleted"
)

// Auditor is an external identity allowed to submit signed searches.
type Auditor struct {
	ID               int64         `json:"auditor_id"`
	Name             string        `json:"name"`
	Status           AuditorStatus `json:"status"`
	ActiveKeyVersion int           `json:"active_key_version"`
	CreatedAt        time.Time     `json:"created_at"`
	DeletedAt        *time.Time    `json:"deleted_at,omitempty"`
}

func NewAuditor(name string, now time.Time) *Auditor {
	return &Auditor{
		Name:             strings.TrimSpace(name),
		Status:           AuditorStatusActive,
		ActiveKeyVersion: 1,
		CreatedAt:        now,
	}
}

func (a *Auditor) IsActive() bool {
	return a.Status == AuditorStatusActive
}

func (a *Auditor) IsDeleted() bool {
	return a.Status == AuditorStatusDeleted
}

// MarkDeleted is terminal. Calling it twice keeps the first deletion time.
func (a *Auditor) MarkDeleted(now time.Time) {
	if a.IsDeleted() {
		return
	}
	a.Status = AuditorStatusDeleted
	a.DeletedAt = &now
}
