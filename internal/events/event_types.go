package events

import (
	"time"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCollaboratorInvited EventType = "collaborator_invited"
	EventInvitationAccepted  EventType = "invitation_accepted"
	EventStatusChanged       EventType = "status_changed"
	EventActiveToggled       EventType = "active_toggled"
	EventAssignmentChanged   EventType = "assignment_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	EntityKind domain.EntityKind `json:"entity_kind"`
	EntityID   string            `json:"entity_id"`
	ActorID    string            `json:"actor_id"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload"`
}

// CollaboratorInvitedPayload payload.
type CollaboratorInvitedPayload struct {
	Email      string   `json:"email"`
	RoleID     string   `json:"role_id"`
	CompanyIDs []string `json:"company_ids,omitempty"`
}

// InvitationAcceptedPayload payload.
type InvitationAcceptedPayload struct {
	CollaboratorID string `json:"collaborator_id"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	FromStatus domain.ReviewStatus `json:"from_status"`
	ToStatus   domain.ReviewStatus `json:"to_status"`
	Reason     string              `json:"reason"`
}

// ActiveToggledPayload payload.
type ActiveToggledPayload struct {
	Active bool `json:"active"`
}

// AssignmentChangedPayload payload.
type AssignmentChangedPayload struct {
	RoleID           string   `json:"role_id"`
	CompanyIDs       []string `json:"company_ids,omitempty"`
	DeliveryPointIDs []string `json:"delivery_point_ids,omitempty"`
}
