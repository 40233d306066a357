package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// ReviewAuditRepository is the audit sink for status transitions.
type ReviewAuditRepository interface {
	Record(ctx context.Context, record *domain.AuditRecord) error
	ListByEntity(ctx context.Context, kind domain.EntityKind, entityID string, limit, offset int) ([]domain.AuditRecord, error)
}

type reviewAuditRepository struct {
	pool *pgxpool.Pool
}

// NewReviewAuditRepository builds the repository.
func NewReviewAuditRepository(pool *pgxpool.Pool) ReviewAuditRepository {
	return &reviewAuditRepository{pool: pool}
}

func (r *reviewAuditRepository) Record(ctx context.Context, record *domain.AuditRecord) error {
	const query = `
        INSERT INTO review_audit (id, entity_id, entity_kind, from_status, to_status, reason, actor_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.EntityID,
		record.EntityKind,
		record.FromStatus,
		record.ToStatus,
		record.Reason,
		record.ActorID,
		record.CreatedAt,
	)
	return err
}

func (r *reviewAuditRepository) ListByEntity(ctx context.Context, kind domain.EntityKind, entityID string, limit, offset int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
        SELECT id, entity_id, entity_kind, from_status, to_status, reason, actor_id, created_at
        FROM review_audit WHERE entity_kind=$1 AND entity_id=$2
        ORDER BY created_at ASC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, kind, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		if err := rows.Scan(
			&record.ID,
			&record.EntityID,
			&record.EntityKind,
			&record.FromStatus,
			&record.ToStatus,
			&record.Reason,
			&record.ActorID,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
