package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/logistics-console/internal/api/dto"
	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/repository"
	"github.com/spec-kit/logistics-console/internal/service"
)

// CompaniesHandler exposes company and delivery point endpoints.
type CompaniesHandler struct {
	companies *service.CompanyService
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(companies *service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{companies: companies}
}

// Create handles POST /companies.
func (h *CompaniesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	company, err := h.companies.CreateCompany(c.Context(), principal.Collaborator, service.CompanyCreateInput{
		Name:  req.Name,
		TaxID: req.TaxID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": companyResponse(company)})
}

// Update handles PUT /companies/:id.
func (h *CompaniesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	company, err := h.companies.UpdateCompany(c.Context(), principal.Collaborator, c.Params("id"), service.CompanyCreateInput{
		Name:  req.Name,
		TaxID: req.TaxID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companyResponse(company)})
}

// Get handles GET /companies/:id.
func (h *CompaniesHandler) Get(c *fiber.Ctx) error {
	company, err := h.companies.GetCompany(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companyResponse(company)})
}

// List handles GET /companies.
func (h *CompaniesHandler) List(c *fiber.Ctx) error {
	filter := repository.CompanyFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
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

	companies, err := h.companies.ListCompanies(c.Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, companyResponse(&companies[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// CreateDeliveryPoint handles POST /companies/:id/delivery-points.
func (h *CompaniesHandler) CreateDeliveryPoint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.DeliveryPointRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	point, err := h.companies.CreateDeliveryPoint(c.Context(), principal.Collaborator, c.Params("id"), service.DeliveryPointInput{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": deliveryPointResponse(point)})
}

// UpdateDeliveryPoint handles PUT /delivery-points/:id.
func (h *CompaniesHandler) UpdateDeliveryPoint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.DeliveryPointRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	point, err := h.companies.UpdateDeliveryPoint(c.Context(), principal.Collaborator, c.Params("id"), service.DeliveryPointInput{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deliveryPointResponse(point)})
}

// ListDeliveryPoints handles GET /companies/:id/delivery-points.
func (h *CompaniesHandler) ListDeliveryPoints(c *fiber.Ctx) error {
	points, err := h.companies.ListDeliveryPoints(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	responses := make([]dto.DeliveryPointResponse, 0, len(points))
	for i := range points {
		responses = append(responses, deliveryPointResponse(&points[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

func companyResponse(company *domain.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:           company.ID,
		Name:         company.Name,
		TaxID:        company.TaxID,
		Status:       string(company.Status),
		StatusReason: company.StatusReason,
		Active:       company.Active,
		CreatedAt:    company.CreatedAt,
		UpdatedAt:    company.UpdatedAt,
	}
}

func deliveryPointResponse(point *domain.DeliveryPoint) dto.DeliveryPointResponse {
	return dto.DeliveryPointResponse{
		ID:           point.ID,
		CompanyID:    point.CompanyID,
		Name:         point.Name,
		Address:      point.Address,
		Status:       string(point.Status),
		StatusReason: point.StatusReason,
		CreatedAt:    point.CreatedAt,
		UpdatedAt:    point.UpdatedAt,
	}
}
