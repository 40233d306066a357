package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// DeliveryPointRepository manages delivery point (PdE) persistence.
type DeliveryPointRepository interface {
	Create(ctx context.Context, point *domain.DeliveryPoint) error
	Update(ctx context.Context, point *domain.DeliveryPoint) error
	SetStatus(ctx context.Context, id string, status domain.ReviewStatus, reason string) error
	GetByID(ctx context.Context, id string) (*domain.DeliveryPoint, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.DeliveryPoint, error)
}

type deliveryPointRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryPointRepository builds the repository.
func NewDeliveryPointRepository(pool *pgxpool.Pool) DeliveryPointRepository {
	return &deliveryPointRepository{pool: pool}
}

func (r *deliveryPointRepository) Create(ctx context.Context, point *domain.DeliveryPoint) error {
	const query = `
        INSERT INTO delivery_points (company_id, name, address, status, status_reason)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		point.CompanyID,
		point.Name,
		point.Address,
		point.Status,
		point.StatusReason,
	).Scan(&point.ID, &point.CreatedAt, &point.UpdatedAt)
}

func (r *deliveryPointRepository) Update(ctx context.Context, point *domain.DeliveryPoint) error {
	const query = `
        UPDATE delivery_points SET name=$1, address=$2, status=$3, status_reason=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		point.Name,
		point.Address,
		point.Status,
		point.StatusReason,
		point.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *deliveryPointRepository) SetStatus(ctx context.Context, id string, status domain.ReviewStatus, reason string) error {
	const query = `
        UPDATE delivery_points SET status=$1, status_reason=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, reason, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *deliveryPointRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryPoint, error) {
	const query = `
        SELECT id, company_id, name, address, status, status_reason, created_at, updated_at
        FROM delivery_points WHERE id=$1`
	var point domain.DeliveryPoint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&point.ID,
		&point.CompanyID,
		&point.Name,
		&point.Address,
		&point.Status,
		&point.StatusReason,
		&point.CreatedAt,
		&point.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *deliveryPointRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.DeliveryPoint, error) {
	const query = `
        SELECT id, company_id, name, address, status, status_reason, created_at, updated_at
        FROM delivery_points WHERE company_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DeliveryPoint
	for rows.Next() {
		var point domain.DeliveryPoint
		if err := rows.Scan(
			&point.ID,
			&point.CompanyID,
			&point.Name,
			&point.Address,
			&point.Status,
			&point.StatusReason,
			&point.CreatedAt,
			&point.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, point)
	}
	return result, rows.Err()
}
