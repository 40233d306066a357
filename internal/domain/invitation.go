package domain

import "time"

// Invitation is the pending-acceptance token issued when a
// collaborator is invited. The collaborator stays in draft until the
// invitation is accepted.
type Invitation struct {
	ID             string
	CollaboratorID string
	Token          string
	ExpiresAt      time.Time
	UsedAt         *time.Time
	CreatedAt      time.Time
}

// Usable reports whether the invitation can still be accepted.
func (i *Invitation) Usable(now time.Time) bool {
	return i.UsedAt == nil && now.Before(i.ExpiresAt)
}
