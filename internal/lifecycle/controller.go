package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// allowedTransitions is the legal status graph: permissive among the
// four reviewed states, no self-loops. Draft has no admin-initiated
// exits; draft leaves through invitation acceptance, which is an
// external event handled by the collaborator service.
var allowedTransitions = map[domain.ReviewStatus][]domain.ReviewStatus{
	domain.StatusUnderReview: {domain.StatusActive, domain.StatusRejected, domain.StatusInactive},
	domain.StatusActive:      {domain.StatusInactive, domain.StatusRejected, domain.StatusUnderReview},
	domain.StatusInactive:    {domain.StatusActive, domain.StatusRejected, domain.StatusUnderReview},
	domain.StatusRejected:    {domain.StatusUnderReview, domain.StatusActive, domain.StatusInactive},
	domain.StatusDraft:       {},
}

func isValidTransition(current, next domain.ReviewStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionErrorKind enumerates transition rejections.
type TransitionErrorKind string

const (
	SameState         TransitionErrorKind = "SAME_STATE"
	EmptyReason       TransitionErrorKind = "EMPTY_REASON"
	IllegalTransition TransitionErrorKind = "ILLEGAL_TRANSITION"
)

// TransitionError rejects a requested transition. Recoverable: the
// request itself must change before retrying.
type TransitionError struct {
	Kind    TransitionErrorKind
	Current domain.ReviewStatus
	Target  domain.ReviewStatus
}

func (e *TransitionError) Error() string {
	switch e.Kind {
	case SameState:
		return fmt.Sprintf("entity already in status %s", e.Current)
	case EmptyReason:
		return "a reason is required for every status transition"
	default:
		return fmt.Sprintf("transition %s -> %s is not allowed", e.Current, e.Target)
	}
}

// Controller enforces legal review-status transitions and produces the
// audit record for each one. It persists nothing itself.
type Controller struct {
	now func() time.Time
}

// NewController builds a controller using wall-clock time.
func NewController() *Controller {
	return &Controller{now: time.Now}
}

// RequestTransition validates the requested change and, when legal,
// returns the audit record describing it. The caller persists the new
// status and hands the record to the audit sink.
func (c *Controller) RequestTransition(state domain.ReviewState, target domain.ReviewStatus, reason, actorID string) (*domain.AuditRecord, error) {
	if target == state.Status {
		return nil, &TransitionError{Kind: SameState, Current: state.Status, Target: target}
	}
	if strings.TrimSpace(reason) == "" {
		return nil, &TransitionError{Kind: EmptyReason, Current: state.Status, Target: target}
	}
	if !isValidTransition(state.Status, target) {
		return nil, &TransitionError{Kind: IllegalTransition, Current: state.Status, Target: target}
	}
	return &domain.AuditRecord{
		ID:         uuid.NewString(),
		EntityID:   state.EntityID,
		EntityKind: state.Kind,
		FromStatus: state.Status,
		ToStatus:   target,
		Reason:     reason,
		ActorID:    actorID,
		CreatedAt:  c.now(),
	}, nil
}

// ToggleActive flips the enabled flag. This is a second, independent
// two-state machine: unconditional, no reason, and it never touches
// the review status. An entity can be status=active and enabled=false
// at the same time.
func (c *Controller) ToggleActive(current bool) bool {
	return !current
}
