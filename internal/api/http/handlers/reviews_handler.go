package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/logistics-console/internal/api/dto"
	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/service"
)

// ReviewsHandler exposes review transition and audit endpoints.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviews *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews}
}

// Transition handles POST /reviews/:kind/:id/transition.
func (h *ReviewsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	kind, err := parseEntityKind(c.Params("kind"))
	if err != nil {
		return err
	}

	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.reviews.Transition(c.Context(), principal.Collaborator, kind, c.Params("id"), domain.ReviewStatus(req.Target), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auditRecordResponse(record)})
}

// ToggleActive handles POST /reviews/:kind/:id/toggle-active.
func (h *ReviewsHandler) ToggleActive(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	kind, err := parseEntityKind(c.Params("kind"))
	if err != nil {
		return err
	}

	active, err := h.reviews.ToggleActive(c.Context(), principal.Collaborator, kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"active": active}})
}

// AuditTrail handles GET /reviews/:kind/:id/audit.
func (h *ReviewsHandler) AuditTrail(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	kind, err := parseEntityKind(c.Params("kind"))
	if err != nil {
		return err
	}

	records, err := h.reviews.AuditTrail(c.Context(), principal.Collaborator, kind, c.Params("id"),
		parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}

	responses := make([]dto.AuditRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, auditRecordResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

func parseEntityKind(raw string) (domain.EntityKind, error) {
	switch kind := domain.EntityKind(raw); kind {
	case domain.KindCollaborator, domain.KindCompany, domain.KindDeliveryPoint:
		return kind, nil
	default:
		return "", fiber.NewError(http.StatusBadRequest, "unknown entity kind")
	}
}

func auditRecordResponse(record *domain.AuditRecord) dto.AuditRecordResponse {
	return dto.AuditRecordResponse{
		ID:         record.ID,
		EntityID:   record.EntityID,
		EntityKind: string(record.EntityKind),
		FromStatus: string(record.FromStatus),
		ToStatus:   string(record.ToStatus),
		Reason:     record.Reason,
		ActorID:    record.ActorID,
		CreatedAt:  record.CreatedAt,
	}
}
