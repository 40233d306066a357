package dto

import "time"

// CompanyRequest payload for create/update.
type CompanyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// CompanyResponse representation.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id,omitempty"`
	Status       string    `json:"status"`
	StatusReason string    `json:"status_reason,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DeliveryPointRequest payload for create/update.
type DeliveryPointRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// DeliveryPointResponse representation.
type DeliveryPointResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Status       string    `json:"status"`
	StatusReason string    `json:"status_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
