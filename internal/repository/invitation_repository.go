package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// InvitationRepository manages invitation token persistence.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.Invitation) error
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	MarkUsed(ctx context.Context, id string) error
}

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository constructs the repository.
func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &invitationRepository{pool: pool}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	const query = `
        INSERT INTO invitations (collaborator_id, token, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		invitation.CollaboratorID,
		invitation.Token,
		invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt)
}

func (r *invitationRepository) GetByToken(ctx context.Context, tokenStr string) (*domain.Invitation, error) {
	const query = `
        SELECT id, collaborator_id, token, expires_at, used_at, created_at
        FROM invitations WHERE token=$1`
	var invitation domain.Invitation
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&invitation.ID,
		&invitation.CollaboratorID,
		&invitation.Token,
		&invitation.ExpiresAt,
		&invitation.UsedAt,
		&invitation.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) MarkUsed(ctx context.Context, id string) error {
	const query = `
        UPDATE invitations SET used_at=NOW()
        WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
