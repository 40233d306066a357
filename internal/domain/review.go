package domain

import "time"

// ReviewStatus enumerates the administrative review lifecycle states.
type ReviewStatus string

const (
	StatusDraft       ReviewStatus = "draft"
	StatusUnderReview ReviewStatus = "under_review"
	StatusActive      ReviewStatus = "active"
	StatusInactive    ReviewStatus = "inactive"
	StatusRejected    ReviewStatus = "rejected"
)

// EntityKind identifies which reviewable aggregate a record refers to.
type EntityKind string

const (
	KindCollaborator  EntityKind = "collaborator"
	KindCompany       EntityKind = "company"
	KindDeliveryPoint EntityKind = "delivery_point"
)

// ReviewState is the slice of a reviewable entity the lifecycle
// controller operates on.
type ReviewState struct {
	EntityID string
	Kind     EntityKind
	Status   ReviewStatus
}

// AuditRecord is an immutable trail entry produced for every
// successful status transition. Persistence belongs to the caller.
type AuditRecord struct {
	ID         string
	EntityID   string
	EntityKind EntityKind
	FromStatus ReviewStatus
	ToStatus   ReviewStatus
	Reason     string
	ActorID    string
	CreatedAt  time.Time
}
