package domain

import "time"

// AuditLog is one entry in the audit trail appended after mutating operations.
type AuditLog struct {
	AuditID     string    `json:"auditID"` // Primary Key (UUID)
	ActorID     string    `json:"actorID"`
	Screen      string    `json:"screen"` // Logical surface, e.g. "JOURNALS"
	Action      string    `json:"action"` // e.g. "POST", "CLOSE_PERIOD"
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
