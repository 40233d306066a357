package domain

import "time"

// Company is a tenant owning delivery points.
type Company struct {
	ID           string
	Name         string
	TaxID        string
	Status       ReviewStatus
	StatusReason string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReviewState exposes the lifecycle view of the company.
func (c *Company) ReviewState() ReviewState {
	return ReviewState{EntityID: c.ID, Kind: KindCompany, Status: c.Status}
}
