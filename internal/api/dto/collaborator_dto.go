package dto

import "time"

// InviteCollaboratorRequest payload.
type InviteCollaboratorRequest struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	RoleID           string   `json:"role_id"`
	CompanyIDs       []string `json:"company_ids"`
	DeliveryPointIDs []string `json:"delivery_point_ids"`
}

// AssignmentUpdateRequest payload.
type AssignmentUpdateRequest struct {
	RoleID           string   `json:"role_id"`
	CompanyIDs       []string `json:"company_ids"`
	DeliveryPointIDs []string `json:"delivery_point_ids"`
}

// CollaboratorResponse representation.
type CollaboratorResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	RoleID           string    `json:"role_id"`
	RoleName         string    `json:"role_name"`
	Status           string    `json:"status"`
	StatusReason     string    `json:"status_reason,omitempty"`
	Active           bool      `json:"active"`
	CompanyIDs       []string  `json:"company_ids,omitempty"`
	DeliveryPointIDs []string  `json:"delivery_point_ids,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AssignmentWarning surfaces a degraded catalog lookup.
type AssignmentWarning struct {
	CompanyID string `json:"company_id"`
	Message   string `json:"message"`
}

// DeliveryPointOptionResponse is one assignable delivery point.
type DeliveryPointOptionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
}
