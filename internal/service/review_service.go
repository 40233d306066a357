package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/events"
	"github.com/spec-kit/logistics-console/internal/lifecycle"
	"github.com/spec-kit/logistics-console/internal/repository"
	apperrors "github.com/spec-kit/logistics-console/pkg/util"
)

// ReviewService drives admin review transitions for all reviewable
// kinds and keeps the audit trail.
type ReviewService struct {
	collaborators  repository.CollaboratorRepository
	companies      repository.CompanyRepository
	deliveryPoints repository.DeliveryPointRepository
	audit          repository.ReviewAuditRepository
	controller     *lifecycle.Controller
	dispatcher     events.Dispatcher
}

// ReviewDependencies bundles repositories for the review service.
type ReviewDependencies struct {
	CollaboratorRepo  repository.CollaboratorRepository
	CompanyRepo       repository.CompanyRepository
	DeliveryPointRepo repository.DeliveryPointRepository
	AuditRepo         repository.ReviewAuditRepository
	Dispatcher        events.Dispatcher
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		collaborators:  deps.CollaboratorRepo,
		companies:      deps.CompanyRepo,
		deliveryPoints: deps.DeliveryPointRepo,
		audit:          deps.AuditRepo,
		controller:     lifecycle.NewController(),
		dispatcher:     deps.Dispatcher,
	}
}

// Transition moves a reviewable entity to a new status. The lifecycle
// controller validates the request and produces the audit record; this
// service persists the new status, records the audit entry and
// publishes the event.
func (s *ReviewService) Transition(ctx context.Context, actor *domain.Collaborator, kind domain.EntityKind, entityID string, target domain.ReviewStatus, reason string) (*domain.AuditRecord, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, err
	}

	state, err := s.currentState(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}

	record, err := s.controller.RequestTransition(state, target, reason, actor.ID)
	if err != nil {
		var tErr *lifecycle.TransitionError
		if errors.As(err, &tErr) {
			details := map[string]any{
				"kind": string(tErr.Kind),
				"from": string(tErr.Current),
				"to":   string(tErr.Target),
			}
			if tErr.Kind == lifecycle.IllegalTransition {
				return nil, apperrors.NewConflict(tErr.Error(), details)
			}
			return nil, apperrors.NewValidationError(tErr.Error(), details)
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.setStatus(ctx, kind, entityID, target, reason); err != nil {
		return nil, err
	}
	if err := s.audit.Record(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventStatusChanged,
		EntityKind: kind,
		EntityID:   entityID,
		ActorID:    actor.ID,
		Payload: events.StatusChangedPayload{
			FromStatus: record.FromStatus,
			ToStatus:   record.ToStatus,
			Reason:     record.Reason,
		},
	})
	return record, nil
}

// ToggleActive flips the enabled flag of a collaborator or company.
// Entirely separate from review status: no reason, always legal.
func (s *ReviewService) ToggleActive(ctx context.Context, actor *domain.Collaborator, kind domain.EntityKind, entityID string) (bool, error) {
	if err := requireAdminTier(actor); err != nil {
		return false, err
	}

	var next bool
	switch kind {
	case domain.KindCollaborator:
		collaborator, err := s.collaborators.GetByID(ctx, entityID)
		if err != nil {
			return false, s.mapLookupErr(err, kind, entityID)
		}
		next = s.controller.ToggleActive(collaborator.Active)
		if err := s.collaborators.SetActive(ctx, entityID, next); err != nil {
			return false, apperrors.MapError(err)
		}
	case domain.KindCompany:
		company, err := s.companies.GetByID(ctx, entityID)
		if err != nil {
			return false, s.mapLookupErr(err, kind, entityID)
		}
		next = s.controller.ToggleActive(company.Active)
		if err := s.companies.SetActive(ctx, entityID, next); err != nil {
			return false, apperrors.MapError(err)
		}
	default:
		return false, apperrors.NewValidationError("entity kind has no enabled flag", map[string]any{"entity_kind": string(kind)})
	}

	s.publish(ctx, events.Event{
		Type:       events.EventActiveToggled,
		EntityKind: kind,
		EntityID:   entityID,
		ActorID:    actor.ID,
		Payload:    events.ActiveToggledPayload{Active: next},
	})
	return next, nil
}

// AuditTrail lists the audit entries of an entity.
func (s *ReviewService) AuditTrail(ctx context.Context, actor *domain.Collaborator, kind domain.EntityKind, entityID string, limit, offset int) ([]domain.AuditRecord, error) {
	if err := requireAdminTier(actor); err != nil {
		return nil, err
	}
	records, err := s.audit.ListByEntity(ctx, kind, entityID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

func (s *ReviewService) currentState(ctx context.Context, kind domain.EntityKind, entityID string) (domain.ReviewState, error) {
	switch kind {
	case domain.KindCollaborator:
		collaborator, err := s.collaborators.GetByID(ctx, entityID)
		if err != nil {
			return domain.ReviewState{}, s.mapLookupErr(err, kind, entityID)
		}
		return collaborator.ReviewState(), nil
	case domain.KindCompany:
		company, err := s.companies.GetByID(ctx, entityID)
		if err != nil {
			return domain.ReviewState{}, s.mapLookupErr(err, kind, entityID)
		}
		return company.ReviewState(), nil
	case domain.KindDeliveryPoint:
		point, err := s.deliveryPoints.GetByID(ctx, entityID)
		if err != nil {
			return domain.ReviewState{}, s.mapLookupErr(err, kind, entityID)
		}
		return point.ReviewState(), nil
	default:
		return domain.ReviewState{}, apperrors.NewValidationError("unknown entity kind", map[string]any{"entity_kind": string(kind)})
	}
}

func (s *ReviewService) setStatus(ctx context.Context, kind domain.EntityKind, entityID string, status domain.ReviewStatus, reason string) error {
	var err error
	switch kind {
	case domain.KindCollaborator:
		err = s.collaborators.SetStatus(ctx, entityID, status, reason)
	case domain.KindCompany:
		err = s.companies.SetStatus(ctx, entityID, status, reason)
	case domain.KindDeliveryPoint:
		err = s.deliveryPoints.SetStatus(ctx, entityID, status, reason)
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ReviewService) mapLookupErr(err error, kind domain.EntityKind, entityID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(string(kind), map[string]any{"entity_id": entityID})
	}
	return apperrors.MapError(err)
}

func (s *ReviewService) publish(ctx context.Context, event events.Event) {
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
