package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/events"
	"github.com/spec-kit/logistics-console/internal/service"
	apperrors "github.com/spec-kit/logistics-console/pkg/util"
)

type reviewFixture struct {
	service       *service.ReviewService
	collaborators *fakeCollaboratorRepo
	companies     *fakeCompanyRepo
	points        *fakeDeliveryPointRepo
	audit         *fakeAuditRepo
	dispatcher    *recordingDispatcher
}

func newReviewFixture(t *testing.T) reviewFixture {
	t.Helper()
	collaborators := newFakeCollaboratorRepo()
	companies := newFakeCompanyRepo(
		&domain.Company{ID: "c1", Name: "Acme", Status: domain.StatusUnderReview, Active: true},
		&domain.Company{ID: "c2", Name: "Globex", Status: domain.StatusActive, Active: true},
	)
	points := newFakeDeliveryPointRepo(
		&domain.DeliveryPoint{ID: "p1", CompanyID: "c1", Name: "Dock North", Status: domain.StatusUnderReview},
	)
	audit := &fakeAuditRepo{}
	dispatcher := &recordingDispatcher{}
	svc := service.NewReviewService(service.ReviewDependencies{
		CollaboratorRepo:  collaborators,
		CompanyRepo:       companies,
		DeliveryPointRepo: points,
		AuditRepo:         audit,
		Dispatcher:        dispatcher,
	})
	return reviewFixture{
		service:       svc,
		collaborators: collaborators,
		companies:     companies,
		points:        points,
		audit:         audit,
		dispatcher:    dispatcher,
	}
}

func TestTransitionPersistsStatusAndAudit(t *testing.T) {
	fx := newReviewFixture(t)

	record, err := fx.service.Transition(context.Background(), adminActor(), domain.KindCompany, "c1", domain.StatusActive, "documents verified")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, domain.StatusUnderReview, record.FromStatus)
	assert.Equal(t, domain.StatusActive, record.ToStatus)
	assert.Equal(t, "documents verified", record.Reason)
	assert.Equal(t, "actor-1", record.ActorID)

	company, err := fx.companies.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, company.Status)
	assert.Equal(t, "documents verified", company.StatusReason)

	trail, err := fx.audit.ListByEntity(context.Background(), domain.KindCompany, "c1", 10, 0)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, record.ID, trail[0].ID)

	published := fx.dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventStatusChanged, published[0].Type)
}

func TestTransitionSameStateRejected(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.Transition(context.Background(), adminActor(), domain.KindCompany, "c2", domain.StatusActive, "already cleared")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Empty(t, fx.dispatcher.published())
}

func TestTransitionEmptyReasonRejected(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.Transition(context.Background(), adminActor(), domain.KindCompany, "c1", domain.StatusActive, "   ")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestTransitionFromDraftConflicts(t *testing.T) {
	fx := newReviewFixture(t)
	draft := &domain.Collaborator{Name: "Jordan", Email: "jordan@example.com", Status: domain.StatusDraft, Active: true}
	require.NoError(t, fx.collaborators.Create(context.Background(), draft))

	_, err := fx.service.Transition(context.Background(), adminActor(), domain.KindCollaborator, draft.ID, domain.StatusActive, "fast track")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestTransitionUnknownEntity(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.Transition(context.Background(), adminActor(), domain.KindCompany, "missing", domain.StatusActive, "reason")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestTransitionRequiresAdminTier(t *testing.T) {
	fx := newReviewFixture(t)
	operator := &domain.Collaborator{ID: "op-1", RoleName: domain.RoleOperadorPdE, Active: true}

	_, err := fx.service.Transition(context.Background(), operator, domain.KindCompany, "c1", domain.StatusActive, "reason")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestToggleActiveFlipsFlag(t *testing.T) {
	fx := newReviewFixture(t)

	active, err := fx.service.ToggleActive(context.Background(), adminActor(), domain.KindCompany, "c1")
	require.NoError(t, err)
	assert.False(t, active)

	company, err := fx.companies.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, company.Active)
	// review status never moves with the flag
	assert.Equal(t, domain.StatusUnderReview, company.Status)

	active, err = fx.service.ToggleActive(context.Background(), adminActor(), domain.KindCompany, "c1")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestToggleActiveRejectsDeliveryPoints(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.ToggleActive(context.Background(), adminActor(), domain.KindDeliveryPoint, "p1")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestAuditTrailListsEntityRecords(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.Transition(context.Background(), adminActor(), domain.KindCompany, "c1", domain.StatusActive, "documents verified")
	require.NoError(t, err)
	_, err = fx.service.Transition(context.Background(), adminActor(), domain.KindCompany, "c1", domain.StatusInactive, "seasonal pause")
	require.NoError(t, err)

	trail, err := fx.service.AuditTrail(context.Background(), adminActor(), domain.KindCompany, "c1", 10, 0)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, domain.StatusActive, trail[0].ToStatus)
	assert.Equal(t, domain.StatusInactive, trail[1].ToStatus)
}
