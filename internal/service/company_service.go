package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/logistics-console/internal/assignment"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/repository"
	apperrors "github.com/spec-kit/logistics-console/pkg/util"
)

// CompanyService manages companies and their delivery points. It also
// implements the catalog capability the assignment resolver reads
// delivery points through.
type CompanyService struct {
	companies      repository.CompanyRepository
	deliveryPoints repository.DeliveryPointRepository
}

// NewCompanyService constructs the service.
func NewCompanyService(companies repository.CompanyRepository, deliveryPoints repository.DeliveryPointRepository) *CompanyService {
	return &CompanyService{companies: companies, deliveryPoints: deliveryPoints}
}

// CompanyCreateInput describes company creation payload.
type CompanyCreateInput struct {
	Name  string
	TaxID string
}

// DeliveryPointInput describes delivery point payloads.
type DeliveryPointInput struct {
	Name    string
	Address string
}

// CreateCompany registers a company, entering review immediately.
func (s *CompanyService) CreateCompany(ctx context.Context, actor *domain.Collaborator, input CompanyCreateInput) (*domain.Company, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("company name required", nil)
	}
	company := &domain.Company{
		Name:   name,
		TaxID:  strings.TrimSpace(input.TaxID),
		Status: domain.StatusUnderReview,
		Active: true,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, apperrors.MapError(err)
	}
	return company, nil
}

// UpdateCompany modifies company metadata. Review status and the
// enabled flag are owned by the review service and not touched here.
func (s *CompanyService) UpdateCompany(ctx context.Context, actor *domain.Collaborator, id string, input CompanyCreateInput) (*domain.Company, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, err
	}
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		company.Name = name
	}
	if taxID := strings.TrimSpace(input.TaxID); taxID != "" {
		company.TaxID = taxID
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, apperrors.MapError(err)
	}
	return company, nil
}

// GetCompany fetches a company.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return company, nil
}

// ListCompanies returns companies matching the filter.
func (s *CompanyService) ListCompanies(ctx context.Context, filter repository.CompanyFilter) ([]domain.Company, error) {
	companies, err := s.companies.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return companies, nil
}

// CreateDeliveryPoint registers a PdE under a company.
func (s *CompanyService) CreateDeliveryPoint(ctx context.Context, actor *domain.Collaborator, companyID string, input DeliveryPointInput) (*domain.DeliveryPoint, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, err
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": companyID})
		}
		return nil, apperrors.MapError(err)
	}
	if !company.Active {
		return nil, apperrors.NewConflict("company disabled", map[string]any{"company_id": companyID})
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("delivery point name required", nil)
	}
	point := &domain.DeliveryPoint{
		CompanyID: company.ID,
		Name:      name,
		Address:   strings.TrimSpace(input.Address),
		Status:    domain.StatusUnderReview,
	}
	if err := s.deliveryPoints.Create(ctx, point); err != nil {
		return nil, apperrors.MapError(err)
	}
	return point, nil
}

// UpdateDeliveryPoint modifies PdE metadata.
func (s *CompanyService) UpdateDeliveryPoint(ctx context.Context, actor *domain.Collaborator, id string, input DeliveryPointInput) (*domain.DeliveryPoint, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, err
	}
	point, err := s.deliveryPoints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("delivery point", map[string]any{"delivery_point_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		point.Name = name
	}
	if address := strings.TrimSpace(input.Address); address != "" {
		point.Address = address
	}
	if err := s.deliveryPoints.Update(ctx, point); err != nil {
		return nil, apperrors.MapError(err)
	}
	return point, nil
}

// ListDeliveryPoints returns the PdEs of a company.
func (s *CompanyService) ListDeliveryPoints(ctx context.Context, companyID string) ([]domain.DeliveryPoint, error) {
	points, err := s.deliveryPoints.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return points, nil
}

// DeliveryPointsFor implements assignment.CompanyCatalog. Only
// approved, enabled companies contribute assignable delivery points;
// anything else yields an empty entry, mirroring the disabled-company
// guard on delivery point creation.
func (s *CompanyService) DeliveryPointsFor(ctx context.Context, companyID string) (assignment.CatalogEntry, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return assignment.CatalogEntry{}, err
	}
	entry := assignment.CatalogEntry{CompanyID: company.ID, CompanyName: company.Name}
	if company.Status != domain.StatusActive || !company.Active {
		return entry, nil
	}
	points, err := s.deliveryPoints.ListByCompany(ctx, companyID)
	if err != nil {
		return assignment.CatalogEntry{}, err
	}
	entry.Points = points
	return entry, nil
}

func requireAdminTier(actor *domain.Collaborator) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.RoleName.AdminTier() {
		return apperrors.NewForbidden("admin tier required")
	}
	return nil
}
