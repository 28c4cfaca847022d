package auditor_management

import "errors"

var (
	ErrInvalidAuditorName = errors.New("auditor name must not be empty")
	ErrAuditorNameTooLong = errors.New("auditor name must be at most 255 characters")
	ErrInvalidAuditorID   = errors.New("auditor id must be positive")
	ErrAuditorNotFound    = errors.New("auditor not found")
	ErrRotationContended  = errors.New("key rotation kept conflicting with concurrent updates")
)

const maxAuditorNameLength = 255
