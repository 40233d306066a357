package domain

import "time"

// Collaborator models a staff account scoped to companies and
// delivery points according to its role.
type Collaborator struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	RoleID           string
	RoleName         RoleName
	Status           ReviewStatus
	StatusReason     string
	Active           bool
	CompanyIDs       []string
	DeliveryPointIDs []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReviewState exposes the lifecycle view of the collaborator.
func (c *Collaborator) ReviewState() ReviewState {
	return ReviewState{EntityID: c.ID, Kind: KindCollaborator, Status: c.Status}
}
