package dto

import "time"

// TransitionRequest asks for a status change.
type TransitionRequest struct {
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// AuditRecordResponse representation.
type AuditRecordResponse struct {
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	EntityKind string    `json:"entity_kind"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason"`
	ActorID    string    `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}
