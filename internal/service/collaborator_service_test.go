package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/logistics-console/internal/assignment"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/events"
	"github.com/spec-kit/logistics-console/internal/repository"
	"github.com/spec-kit/logistics-console/internal/service"
	apperrors "github.com/spec-kit/logistics-console/pkg/util"
)

type collaboratorFixture struct {
	service       *service.CollaboratorService
	collaborators *fakeCollaboratorRepo
	invitations   *fakeInvitationRepo
	dispatcher    *recordingDispatcher
}

func newCollaboratorFixture(t *testing.T, catalog *staticCatalog) collaboratorFixture {
	t.Helper()
	collaborators := newFakeCollaboratorRepo()
	invitations := newFakeInvitationRepo()
	dispatcher := &recordingDispatcher{}
	roles := newFakeRoleRepo(
		domain.Role{ID: "role-super", Name: domain.RoleSuperAdmin, Level: 0},
		domain.Role{ID: "role-sae", Name: domain.RoleSuperAdminEmpresa, Level: 1},
		domain.Role{ID: "role-ae", Name: domain.RoleAdministradorEmpresa, Level: 2},
		domain.Role{ID: "role-apde", Name: domain.RoleAdminPdE, Level: 3},
		domain.Role{ID: "role-opde", Name: domain.RoleOperadorPdE, Level: 4},
	)
	svc := service.NewCollaboratorService(testConfig(), service.CollaboratorDependencies{
		CollaboratorRepo: collaborators,
		RoleRepo:         roles,
		InvitationRepo:   invitations,
		Resolver:         assignment.NewResolver(catalog),
		Dispatcher:       dispatcher,
	})
	return collaboratorFixture{
		service:       svc,
		collaborators: collaborators,
		invitations:   invitations,
		dispatcher:    dispatcher,
	}
}

func defaultCatalog() *staticCatalog {
	return &staticCatalog{
		entries: map[string]assignment.CatalogEntry{
			"c1": {CompanyID: "c1", CompanyName: "Acme", Points: []domain.DeliveryPoint{
				{ID: "p1", CompanyID: "c1", Name: "Dock North"},
				{ID: "p2", CompanyID: "c1", Name: "Dock South"},
			}},
			"c2": {CompanyID: "c2", CompanyName: "Globex", Points: []domain.DeliveryPoint{
				{ID: "p3", CompanyID: "c2", Name: "Warehouse"},
			}},
		},
		failing: map[string]error{},
	}
}

func TestInviteCreatesDraftWithToken(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	result, invitation, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan",
		Email:      "Jordan@Example.com",
		RoleID:     "role-sae",
		CompanyIDs: []string{"c1"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, invitation)

	assert.Equal(t, domain.StatusDraft, result.Collaborator.Status)
	assert.Equal(t, "jordan@example.com", result.Collaborator.Email)
	assert.Equal(t, []string{"c1"}, result.Collaborator.CompanyIDs)
	assert.True(t, result.Collaborator.Active)
	assert.NotEmpty(t, invitation.Token)
	assert.True(t, invitation.ExpiresAt.After(time.Now()))

	published := fx.dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventCollaboratorInvited, published[0].Type)
}

func TestInviteRejectsDuplicateEmail(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	_, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan",
		Email:      "jordan@example.com",
		RoleID:     "role-sae",
		CompanyIDs: []string{"c1"},
	})
	require.NoError(t, err)

	_, _, err = fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan Again",
		Email:      "JORDAN@example.com",
		RoleID:     "role-sae",
		CompanyIDs: []string{"c1"},
	})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestInviteRequiresCompanyForScopedRoles(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	_, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:   "Jordan",
		Email:  "jordan@example.com",
		RoleID: "role-sae",
	})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, "MISSING_COMPANY", domainErr.Details["kind"])
}

func TestInviteKeepsFirstCompanyUnderSinglePolicy(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	result, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan",
		Email:      "jordan@example.com",
		RoleID:     "role-sae",
		CompanyIDs: []string{"c1", "c2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, result.Collaborator.CompanyIDs)
}

func TestInviteRequiresAdminTier(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	operator := &domain.Collaborator{ID: "op-1", RoleName: domain.RoleOperadorPdE, Active: true}
	_, _, err := fx.service.Invite(context.Background(), operator, service.InviteInput{
		Email:  "jordan@example.com",
		RoleID: "role-opde",
	})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestAcceptInvitationMovesDraftToUnderReview(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	result, invitation, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan",
		Email:      "jordan@example.com",
		RoleID:     "role-sae",
		CompanyIDs: []string{"c1"},
	})
	require.NoError(t, err)

	accepted, err := fx.service.AcceptInvitation(context.Background(), invitation.Token, "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, result.Collaborator.ID, accepted.ID)
	assert.Equal(t, domain.StatusUnderReview, accepted.Status)
	assert.NotEmpty(t, accepted.PasswordHash)

	stored, err := fx.collaborators.GetByID(context.Background(), accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, stored.Status)

	// second use of the same token must fail
	_, err = fx.service.AcceptInvitation(context.Background(), invitation.Token, "another-pass")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestAcceptInvitationUnknownToken(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	_, err := fx.service.AcceptInvitation(context.Background(), "no-such-token", "pass")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestUpdateAssignmentPrunesUnavailablePoints(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	result, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan",
		Email:      "jordan@example.com",
		RoleID:     "role-apde",
		CompanyIDs: []string{"c1"},
		DeliveryPointIDs: []string{
			"p1",
		},
	})
	require.NoError(t, err)

	updated, err := fx.service.UpdateAssignment(context.Background(), adminActor(), result.Collaborator.ID, service.AssignmentUpdateInput{
		RoleID:           "role-apde",
		CompanyIDs:       []string{"c1"},
		DeliveryPointIDs: []string{"p1", "p-ghost"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, updated.Collaborator.DeliveryPointIDs)
	assert.Empty(t, updated.Warnings)
}

func TestUpdateAssignmentClearsScopeForGlobalRole(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	result, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:             "Jordan",
		Email:            "jordan@example.com",
		RoleID:           "role-apde",
		CompanyIDs:       []string{"c1"},
		DeliveryPointIDs: []string{"p1"},
	})
	require.NoError(t, err)

	updated, err := fx.service.UpdateAssignment(context.Background(), adminActor(), result.Collaborator.ID, service.AssignmentUpdateInput{
		RoleID:           "role-super",
		CompanyIDs:       []string{"c1"},
		DeliveryPointIDs: []string{"p1"},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Collaborator.CompanyIDs)
	assert.Empty(t, updated.Collaborator.DeliveryPointIDs)
}

func TestInviteRejectsUnresolvableRole(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	for _, roleID := range []string{"role-ghost", ""} {
		_, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
			Name:       "Jordan",
			Email:      "jordan@example.com",
			RoleID:     roleID,
			CompanyIDs: []string{"c1"},
		})
		require.Error(t, err, "role id %q", roleID)
		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	}

	// nothing persisted for either attempt
	stored, err := fx.collaborators.List(context.Background(), repository.CollaboratorFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, fx.dispatcher.published())
}

func TestUpdateAssignmentRejectsUnresolvableRole(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	result, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan",
		Email:      "jordan@example.com",
		RoleID:     "role-sae",
		CompanyIDs: []string{"c1"},
	})
	require.NoError(t, err)

	_, err = fx.service.UpdateAssignment(context.Background(), adminActor(), result.Collaborator.ID, service.AssignmentUpdateInput{
		RoleID:     "role-ghost",
		CompanyIDs: []string{"c1"},
	})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, "role-ghost", domainErr.Details["role_id"])

	stored, err := fx.collaborators.GetByID(context.Background(), result.Collaborator.ID)
	require.NoError(t, err)
	assert.Equal(t, "role-sae", stored.RoleID)
}

func TestUpdateAssignmentSurfacesCatalogWarnings(t *testing.T) {
	catalog := defaultCatalog()
	catalog.failing["c2"] = errors.New("catalog timeout")
	fx := newCollaboratorFixture(t, catalog)

	result, _, err := fx.service.Invite(context.Background(), adminActor(), service.InviteInput{
		Name:       "Jordan",
		Email:      "jordan@example.com",
		RoleID:     "role-ae",
		CompanyIDs: []string{"c1"},
	})
	require.NoError(t, err)

	updated, err := fx.service.UpdateAssignment(context.Background(), adminActor(), result.Collaborator.ID, service.AssignmentUpdateInput{
		RoleID:     "role-ae",
		CompanyIDs: []string{"c1", "c2"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Warnings, 1)
	assert.Equal(t, "c2", updated.Warnings[0].CompanyID)
}

func TestAssignableDeliveryPointsReflectsSelection(t *testing.T) {
	fx := newCollaboratorFixture(t, defaultCatalog())

	avail := fx.service.AssignableDeliveryPoints(context.Background(), []string{"c1", "c2"})
	require.Len(t, avail.Points, 3)
	assert.Equal(t, "p1", avail.Points[0].ID)
	assert.Equal(t, "Acme", avail.Points[0].CompanyName)
	assert.Equal(t, "p3", avail.Points[2].ID)

	avail = fx.service.AssignableDeliveryPoints(context.Background(), nil)
	assert.Empty(t, avail.Points)
}
