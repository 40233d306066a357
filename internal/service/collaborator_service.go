package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/logistics-console/internal/assignment"
	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/config"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/events"
	"github.com/spec-kit/logistics-console/internal/repository"
	apperrors "github.com/spec-kit/logistics-console/pkg/util"
)

// CollaboratorService coordinates invitations and assignment edits.
type CollaboratorService struct {
	collaborators repository.CollaboratorRepository
	roles         repository.RoleRepository
	invitations   repository.InvitationRepository
	resolver      *assignment.Resolver
	dispatcher    events.Dispatcher
	bcryptCost    int
	invitationTTL time.Duration
}

// CollaboratorDependencies bundles dependencies for the service.
type CollaboratorDependencies struct {
	CollaboratorRepo repository.CollaboratorRepository
	RoleRepo         repository.RoleRepository
	InvitationRepo   repository.InvitationRepository
	Resolver         *assignment.Resolver
	Dispatcher       events.Dispatcher
}

// NewCollaboratorService constructs the service.
func NewCollaboratorService(cfg config.Config, deps CollaboratorDependencies) *CollaboratorService {
	return &CollaboratorService{
		collaborators: deps.CollaboratorRepo,
		roles:         deps.RoleRepo,
		invitations:   deps.InvitationRepo,
		resolver:      deps.Resolver,
		dispatcher:    deps.Dispatcher,
		bcryptCost:    cfg.Auth.BcryptCost,
		invitationTTL: cfg.Auth.InvitationTTL(),
	}
}

// InviteInput describes an invitation payload.
type InviteInput struct {
	Name             string
	Email            string
	RoleID           string
	CompanyIDs       []string
	DeliveryPointIDs []string
}

// AssignmentUpdateInput describes an assignment edit.
type AssignmentUpdateInput struct {
	RoleID           string
	CompanyIDs       []string
	DeliveryPointIDs []string
}

// AssignmentResult reports the applied selection along with any
// catalog degradation the caller should surface as a warning.
type AssignmentResult struct {
	Collaborator *domain.Collaborator
	Warnings     []assignment.LookupFailure
}

// Invite creates a draft collaborator with a validated assignment set
// and issues an invitation token. The collaborator stays in draft
// until the invitation is accepted.
func (s *CollaboratorService) Invite(ctx context.Context, actor *domain.Collaborator, input InviteInput) (*AssignmentResult, *domain.Invitation, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, nil, apperrors.NewValidationError("email required", nil)
	}
	if _, err := s.collaborators.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}

	roleName, err := s.resolveRoleName(ctx, input.RoleID)
	if err != nil {
		return nil, nil, err
	}

	sel, warnings, err := s.reconcileSelection(ctx, roleName, assignment.Selection{
		CompanyIDs:       input.CompanyIDs,
		DeliveryPointIDs: input.DeliveryPointIDs,
	})
	if err != nil {
		return nil, nil, err
	}

	collaborator := &domain.Collaborator{
		Name:             strings.TrimSpace(input.Name),
		Email:            email,
		RoleID:           input.RoleID,
		RoleName:         roleName,
		Status:           domain.StatusDraft,
		StatusReason:     "invitation sent",
		Active:           true,
		CompanyIDs:       sel.CompanyIDs,
		DeliveryPointIDs: sel.DeliveryPointIDs,
	}
	if err := s.collaborators.Create(ctx, collaborator); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	invitation := &domain.Invitation{
		CollaboratorID: collaborator.ID,
		Token:          uuid.NewString(),
		ExpiresAt:      time.Now().Add(s.invitationTTL),
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventCollaboratorInvited,
		EntityKind: domain.KindCollaborator,
		EntityID:   collaborator.ID,
		ActorID:    actor.ID,
		Payload: events.CollaboratorInvitedPayload{
			Email:      collaborator.Email,
			RoleID:     collaborator.RoleID,
			CompanyIDs: collaborator.CompanyIDs,
		},
	})
	return &AssignmentResult{Collaborator: collaborator, Warnings: warnings}, invitation, nil
}

// AcceptInvitation consumes an invitation token, sets the password and
// moves the collaborator from draft to under_review. This is the only
// exit from draft, and it is not an admin transition.
func (s *CollaboratorService) AcceptInvitation(ctx context.Context, token, password string) (*domain.Collaborator, error) {
	invitation, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("invitation", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !invitation.Usable(time.Now()) {
		return nil, apperrors.NewConflict("invitation expired or used", nil)
	}

	collaborator, err := s.collaborators.GetByID(ctx, invitation.CollaboratorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if collaborator.Status != domain.StatusDraft {
		return nil, apperrors.NewConflict("invitation already accepted", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	collaborator.PasswordHash = hash
	collaborator.Status = domain.StatusUnderReview
	collaborator.StatusReason = "invitation accepted"
	if err := s.collaborators.Update(ctx, collaborator); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.invitations.MarkUsed(ctx, invitation.ID); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventInvitationAccepted,
		EntityKind: domain.KindCollaborator,
		EntityID:   collaborator.ID,
		ActorID:    collaborator.ID,
		Payload:    events.InvitationAcceptedPayload{CollaboratorID: collaborator.ID},
	})
	return collaborator, nil
}

// UpdateAssignment applies a role/assignment change. The selection is
// reconciled against the new role, pruned against the live catalog and
// validated before anything is persisted.
func (s *CollaboratorService) UpdateAssignment(ctx context.Context, actor *domain.Collaborator, collaboratorID string, input AssignmentUpdateInput) (*AssignmentResult, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, err
	}
	collaborator, err := s.collaborators.GetByID(ctx, collaboratorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("collaborator", map[string]any{"collaborator_id": collaboratorID})
		}
		return nil, apperrors.MapError(err)
	}

	roleName, err := s.resolveRoleName(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}

	sel, warnings, err := s.reconcileSelection(ctx, roleName, assignment.Selection{
		CompanyIDs:       input.CompanyIDs,
		DeliveryPointIDs: input.DeliveryPointIDs,
	})
	if err != nil {
		return nil, err
	}

	collaborator.RoleID = input.RoleID
	collaborator.RoleName = roleName
	collaborator.CompanyIDs = sel.CompanyIDs
	collaborator.DeliveryPointIDs = sel.DeliveryPointIDs
	if err := s.collaborators.Update(ctx, collaborator); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.collaborators.ReplaceAssignments(ctx, collaborator.ID, sel.CompanyIDs, sel.DeliveryPointIDs); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventAssignmentChanged,
		EntityKind: domain.KindCollaborator,
		EntityID:   collaborator.ID,
		ActorID:    actor.ID,
		Payload: events.AssignmentChangedPayload{
			RoleID:           collaborator.RoleID,
			CompanyIDs:       collaborator.CompanyIDs,
			DeliveryPointIDs: collaborator.DeliveryPointIDs,
		},
	})
	return &AssignmentResult{Collaborator: collaborator, Warnings: warnings}, nil
}

// AssignableDeliveryPoints recomputes the candidate pool for a company
// selection, for form rendering.
func (s *CollaboratorService) AssignableDeliveryPoints(ctx context.Context, companyIDs []string) assignment.Availability {
	return s.resolver.Recompute(ctx, companyIDs)
}

// GetCollaborator fetches a collaborator.
func (s *CollaboratorService) GetCollaborator(ctx context.Context, id string) (*domain.Collaborator, error) {
	collaborator, err := s.collaborators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("collaborator", map[string]any{"collaborator_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return collaborator, nil
}

// ListCollaborators returns collaborators matching the filter.
func (s *CollaboratorService) ListCollaborators(ctx context.Context, filter repository.CollaboratorFilter) ([]domain.Collaborator, error) {
	collaborators, err := s.collaborators.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return collaborators, nil
}

// resolveRoleName maps a role id to its name. Submissions persist the
// role id, so an id that does not resolve is rejected here; the
// unknown-role leniency lives in the validation engine, where it only
// affects which fields a form demands.
func (s *CollaboratorService) resolveRoleName(ctx context.Context, roleID string) (domain.RoleName, error) {
	if roleID == "" {
		return "", apperrors.NewValidationError("role required", nil)
	}
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewValidationError("unknown role", map[string]any{"role_id": roleID})
		}
		return "", apperrors.MapError(err)
	}
	return role.Name, nil
}

// reconcileSelection runs the full pipeline: reconcile against the
// role, recompute availability, prune, then validate. Catalog
// failures degrade to warnings, never abort.
func (s *CollaboratorService) reconcileSelection(ctx context.Context, roleName domain.RoleName, sel assignment.Selection) (assignment.Selection, []assignment.LookupFailure, error) {
	avail := s.resolver.Recompute(ctx, sel.CompanyIDs)
	reconciled := assignment.ReconcileOnRoleChange(roleName, sel, avail.Owners())
	if len(reconciled.CompanyIDs) != len(sel.CompanyIDs) {
		// the reconcile shrank the company set; refresh the pool
		avail = s.resolver.Recompute(ctx, reconciled.CompanyIDs)
	}
	sel = reconciled
	sel.DeliveryPointIDs = assignment.PruneSelection(sel.DeliveryPointIDs, avail)

	if err := assignment.Validate(roleName, sel); err != nil {
		var vErr *assignment.ValidationError
		if errors.As(err, &vErr) {
			return assignment.Selection{}, nil, apperrors.NewValidationError(vErr.Error(), map[string]any{
				"kind": string(vErr.Kind),
				"role": string(vErr.Role),
			})
		}
		return assignment.Selection{}, nil, apperrors.MapError(err)
	}
	return sel, avail.Failures, nil
}

func (s *CollaboratorService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
