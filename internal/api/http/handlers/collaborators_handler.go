package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/logistics-console/internal/api/dto"
	"github.com/spec-kit/logistics-console/internal/assignment"
	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/repository"
	"github.com/spec-kit/logistics-console/internal/service"
)

// CollaboratorsHandler exposes collaborator management endpoints.
type CollaboratorsHandler struct {
	collaborators *service.CollaboratorService
}

// NewCollaboratorsHandler constructs handler.
func NewCollaboratorsHandler(collaborators *service.CollaboratorService) *CollaboratorsHandler {
	return &CollaboratorsHandler{collaborators: collaborators}
}

// Invite handles POST /collaborators/invitations.
func (h *CollaboratorsHandler) Invite(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.InviteCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, invitation, err := h.collaborators.Invite(c.Context(), principal.Collaborator, service.InviteInput{
		Name:             req.Name,
		Email:            req.Email,
		RoleID:           req.RoleID,
		CompanyIDs:       req.CompanyIDs,
		DeliveryPointIDs: req.DeliveryPointIDs,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"collaborator":     collaboratorResponse(result.Collaborator),
			"invitation_token": invitation.Token,
			"expires_at":       invitation.ExpiresAt,
		},
		"warnings": warningResponses(result.Warnings),
	})
}

// UpdateAssignment handles PUT /collaborators/:id/assignment.
func (h *CollaboratorsHandler) UpdateAssignment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.AssignmentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.collaborators.UpdateAssignment(c.Context(), principal.Collaborator, c.Params("id"), service.AssignmentUpdateInput{
		RoleID:           req.RoleID,
		CompanyIDs:       req.CompanyIDs,
		DeliveryPointIDs: req.DeliveryPointIDs,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":     collaboratorResponse(result.Collaborator),
		"warnings": warningResponses(result.Warnings),
	})
}

// AssignableDeliveryPoints handles GET /collaborators/assignable-delivery-points.
// The company_ids query param is a comma-separated list.
func (h *CollaboratorsHandler) AssignableDeliveryPoints(c *fiber.Ctx) error {
	var companyIDs []string
	if raw := c.Query("company_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				companyIDs = append(companyIDs, id)
			}
		}
	}

	avail := h.collaborators.AssignableDeliveryPoints(c.Context(), companyIDs)
	options := make([]dto.DeliveryPointOptionResponse, 0, len(avail.Points))
	for _, p := range avail.Points {
		options = append(options, dto.DeliveryPointOptionResponse{
			ID:          p.ID,
			Name:        p.Name,
			CompanyID:   p.CompanyID,
			CompanyName: p.CompanyName,
		})
	}

	return c.JSON(fiber.Map{
		"data":     options,
		"warnings": warningResponses(avail.Failures),
	})
}

// Get handles GET /collaborators/:id.
func (h *CollaboratorsHandler) Get(c *fiber.Ctx) error {
	collaborator, err := h.collaborators.GetCollaborator(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": collaboratorResponse(collaborator)})
}

// List handles GET /collaborators.
func (h *CollaboratorsHandler) List(c *fiber.Ctx) error {
	filter := repository.CollaboratorFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if roleID := c.Query("role_id"); roleID != "" {
		filter.RoleID = &roleID
	}
	if status := c.Query("status"); status != "" {
		reviewStatus := domain.ReviewStatus(status)
		filter.Status = &reviewStatus
	}
	if active := c.Query("active"); active != "" {
		val, err := strconv.ParseBool(active)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid active filter")
		}
		filter.Active = &val
	}
	if companyID := c.Query("company_id"); companyID != "" {
		filter.CompanyID = &companyID
	}

	collaborators, err := h.collaborators.ListCollaborators(c.Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]dto.CollaboratorResponse, 0, len(collaborators))
	for i := range collaborators {
		responses = append(responses, collaboratorResponse(&collaborators[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

func collaboratorResponse(collaborator *domain.Collaborator) dto.CollaboratorResponse {
	return dto.CollaboratorResponse{
		ID:               collaborator.ID,
		Name:             collaborator.Name,
		Email:            collaborator.Email,
		RoleID:           collaborator.RoleID,
		RoleName:         string(collaborator.RoleName),
		Status:           string(collaborator.Status),
		StatusReason:     collaborator.StatusReason,
		Active:           collaborator.Active,
		CompanyIDs:       collaborator.CompanyIDs,
		DeliveryPointIDs: collaborator.DeliveryPointIDs,
		CreatedAt:        collaborator.CreatedAt,
		UpdatedAt:        collaborator.UpdatedAt,
	}
}

func warningResponses(failures []assignment.LookupFailure) []dto.AssignmentWarning {
	warnings := make([]dto.AssignmentWarning, 0, len(failures))
	for _, f := range failures {
		warnings = append(warnings, dto.AssignmentWarning{
			CompanyID: f.CompanyID,
			Message:   "delivery point catalog unavailable",
		})
	}
	return warnings
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}
