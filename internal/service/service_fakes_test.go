package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/logistics-console/internal/assignment"
	"github.com/spec-kit/logistics-console/internal/config"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/events"
	"github.com/spec-kit/logistics-console/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			InvitationTTLHours:    72,
			BcryptCost:            4,
		},
	}
}

func adminActor() *domain.Collaborator {
	return &domain.Collaborator{
		ID:       "actor-1",
		Name:     "Admin",
		Email:    "admin@example.com",
		RoleName: domain.RoleSuperAdmin,
		Status:   domain.StatusActive,
		Active:   true,
	}
}

type fakeCollaboratorRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Collaborator
}

func newFakeCollaboratorRepo() *fakeCollaboratorRepo {
	return &fakeCollaboratorRepo{items: map[string]*domain.Collaborator{}}
}

func (r *fakeCollaboratorRepo) Create(_ context.Context, collaborator *domain.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	collaborator.ID = fmt.Sprintf("collab-%d", r.seq)
	clone := *collaborator
	r.items[collaborator.ID] = &clone
	return nil
}

func (r *fakeCollaboratorRepo) Update(_ context.Context, collaborator *domain.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[collaborator.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *collaborator
	r.items[collaborator.ID] = &clone
	return nil
}

func (r *fakeCollaboratorRepo) SetStatus(_ context.Context, id string, status domain.ReviewStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	collaborator, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	collaborator.Status = status
	collaborator.StatusReason = reason
	return nil
}

func (r *fakeCollaboratorRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	collaborator, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	collaborator.Active = active
	return nil
}

func (r *fakeCollaboratorRepo) GetByID(_ context.Context, id string) (*domain.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	collaborator, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *collaborator
	return &clone, nil
}

func (r *fakeCollaboratorRepo) GetByEmail(_ context.Context, email string) (*domain.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, collaborator := range r.items {
		if collaborator.Email == email {
			clone := *collaborator
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCollaboratorRepo) List(_ context.Context, _ repository.CollaboratorFilter) ([]domain.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Collaborator, 0, len(r.items))
	for _, collaborator := range r.items {
		out = append(out, *collaborator)
	}
	return out, nil
}

func (r *fakeCollaboratorRepo) ReplaceAssignments(_ context.Context, id string, companyIDs, deliveryPointIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	collaborator, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	collaborator.CompanyIDs = append([]string(nil), companyIDs...)
	collaborator.DeliveryPointIDs = append([]string(nil), deliveryPointIDs...)
	return nil
}

type fakeRoleRepo struct {
	roles map[string]domain.Role
}

func newFakeRoleRepo(roles ...domain.Role) *fakeRoleRepo {
	repo := &fakeRoleRepo{roles: map[string]domain.Role{}}
	for _, role := range roles {
		repo.roles[role.ID] = role
	}
	return repo
}

func (r *fakeRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return &role, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeInvitationRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{items: map[string]*domain.Invitation{}}
}

func (r *fakeInvitationRepo) Create(_ context.Context, invitation *domain.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	invitation.ID = fmt.Sprintf("invite-%d", r.seq)
	clone := *invitation
	r.items[invitation.ID] = &clone
	return nil
}

func (r *fakeInvitationRepo) GetByToken(_ context.Context, token string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invitation := range r.items {
		if invitation.Token == token {
			clone := *invitation
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeInvitationRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invitation, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := invitation.ExpiresAt
	invitation.UsedAt = &now
	return nil
}

type fakeCompanyRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Company
}

func newFakeCompanyRepo(companies ...*domain.Company) *fakeCompanyRepo {
	repo := &fakeCompanyRepo{items: map[string]*domain.Company{}}
	for _, company := range companies {
		clone := *company
		repo.items[company.ID] = &clone
	}
	return repo
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if company.ID == "" {
		company.ID = fmt.Sprintf("company-%d", len(r.items)+1)
	}
	clone := *company
	r.items[company.ID] = &clone
	return nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[company.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *company
	r.items[company.ID] = &clone
	return nil
}

func (r *fakeCompanyRepo) SetStatus(_ context.Context, id string, status domain.ReviewStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	company, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	company.Status = status
	company.StatusReason = reason
	return nil
}

func (r *fakeCompanyRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	company, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	company.Active = active
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	company, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *company
	return &clone, nil
}

func (r *fakeCompanyRepo) List(_ context.Context, _ repository.CompanyFilter) ([]domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Company, 0, len(r.items))
	for _, company := range r.items {
		out = append(out, *company)
	}
	return out, nil
}

type fakeDeliveryPointRepo struct {
	mu    sync.Mutex
	items map[string]*domain.DeliveryPoint
}

func newFakeDeliveryPointRepo(points ...*domain.DeliveryPoint) *fakeDeliveryPointRepo {
	repo := &fakeDeliveryPointRepo{items: map[string]*domain.DeliveryPoint{}}
	for _, point := range points {
		clone := *point
		repo.items[point.ID] = &clone
	}
	return repo
}

func (r *fakeDeliveryPointRepo) Create(_ context.Context, point *domain.DeliveryPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if point.ID == "" {
		point.ID = fmt.Sprintf("point-%d", len(r.items)+1)
	}
	clone := *point
	r.items[point.ID] = &clone
	return nil
}

func (r *fakeDeliveryPointRepo) Update(_ context.Context, point *domain.DeliveryPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[point.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *point
	r.items[point.ID] = &clone
	return nil
}

func (r *fakeDeliveryPointRepo) SetStatus(_ context.Context, id string, status domain.ReviewStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	point, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	point.Status = status
	point.StatusReason = reason
	return nil
}

func (r *fakeDeliveryPointRepo) GetByID(_ context.Context, id string) (*domain.DeliveryPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	point, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *point
	return &clone, nil
}

func (r *fakeDeliveryPointRepo) ListByCompany(_ context.Context, companyID string) ([]domain.DeliveryPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.DeliveryPoint{}
	for _, point := range r.items {
		if point.CompanyID == companyID {
			out = append(out, *point)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	records []domain.AuditRecord
}

func (r *fakeAuditRepo) Record(_ context.Context, record *domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, kind domain.EntityKind, entityID string, _, _ int) ([]domain.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.AuditRecord{}
	for _, record := range r.records {
		if record.EntityKind == kind && record.EntityID == entityID {
			out = append(out, record)
		}
	}
	return out, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event(nil), d.events...)
}

// staticCatalog serves delivery points per company for resolver tests.
type staticCatalog struct {
	entries map[string]assignment.CatalogEntry
	failing map[string]error
}

func (c *staticCatalog) DeliveryPointsFor(_ context.Context, companyID string) (assignment.CatalogEntry, error) {
	if err, ok := c.failing[companyID]; ok {
		return assignment.CatalogEntry{}, err
	}
	entry, ok := c.entries[companyID]
	if !ok {
		return assignment.CatalogEntry{CompanyID: companyID}, nil
	}
	return entry, nil
}
