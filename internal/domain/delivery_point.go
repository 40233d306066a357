package domain

import "time"

// DeliveryPoint (PdE) is a drop-off/pickup location belonging to a company.
type DeliveryPoint struct {
	ID           string
	CompanyID    string
	Name         string
	Address      string
	Status       ReviewStatus
	StatusReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReviewState exposes the lifecycle view of the delivery point.
func (d *DeliveryPoint) ReviewState() ReviewState {
	return ReviewState{EntityID: d.ID, Kind: KindDeliveryPoint, Status: d.Status}
}
