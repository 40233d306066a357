package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// CollaboratorFilter defines query params for collaborator listing.
type CollaboratorFilter struct {
	RoleID    *string
	Status    *domain.ReviewStatus
	Active    *bool
	CompanyID *string
	Limit     int
	Offset    int
}

// CollaboratorRepository handles persistence for collaborators and
// their company / delivery-point assignments.
type CollaboratorRepository interface {
	Create(ctx context.Context, collaborator *domain.Collaborator) error
	Update(ctx context.Context, collaborator *domain.Collaborator) error
	SetStatus(ctx context.Context, id string, status domain.ReviewStatus, reason string) error
	SetActive(ctx context.Context, id string, active bool) error
	GetByID(ctx context.Context, id string) (*domain.Collaborator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Collaborator, error)
	List(ctx context.Context, filter CollaboratorFilter) ([]domain.Collaborator, error)
	ReplaceAssignments(ctx context.Context, id string, companyIDs, deliveryPointIDs []string) error
}

type collaboratorRepository struct {
	pool *pgxpool.Pool
}

// NewCollaboratorRepository instantiates the repository.
func NewCollaboratorRepository(pool *pgxpool.Pool) CollaboratorRepository {
	return &collaboratorRepository{pool: pool}
}

func (r *collaboratorRepository) Create(ctx context.Context, collaborator *domain.Collaborator) error {
	const query = `
        INSERT INTO collaborators (name, email, password_hash, role_id, status, status_reason, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		collaborator.Name,
		collaborator.Email,
		collaborator.PasswordHash,
		collaborator.RoleID,
		collaborator.Status,
		collaborator.StatusReason,
		collaborator.Active,
	).Scan(&collaborator.ID, &collaborator.CreatedAt, &collaborator.UpdatedAt); err != nil {
		return err
	}
	return r.ReplaceAssignments(ctx, collaborator.ID, collaborator.CompanyIDs, collaborator.DeliveryPointIDs)
}

func (r *collaboratorRepository) Update(ctx context.Context, collaborator *domain.Collaborator) error {
	const query = `
        UPDATE collaborators
        SET name=$1, email=$2, password_hash=$3, role_id=$4, status=$5, status_reason=$6, active_flag=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		collaborator.Name,
		collaborator.Email,
		collaborator.PasswordHash,
		collaborator.RoleID,
		collaborator.Status,
		collaborator.StatusReason,
		collaborator.Active,
		collaborator.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *collaboratorRepository) SetStatus(ctx context.Context, id string, status domain.ReviewStatus, reason string) error {
	const query = `
        UPDATE collaborators SET status=$1, status_reason=$2, updated_at=NOW()
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

func (r *collaboratorRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
        UPDATE collaborators SET active_flag=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *collaboratorRepository) GetByID(ctx context.Context, id string) (*domain.Collaborator, error) {
	const query = selectCollaborator + ` WHERE c.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *collaboratorRepository) GetByEmail(ctx context.Context, email string) (*domain.Collaborator, error) {
	const query = selectCollaborator + ` WHERE c.email=$1`
	return r.fetchSingle(ctx, query, email)
}

const selectCollaborator = `
        SELECT c.id, c.name, c.email, c.password_hash, c.role_id, r.name,
               c.status, c.status_reason, c.active_flag, c.created_at, c.updated_at
        FROM collaborators c
        JOIN roles r ON r.id = c.role_id`

func (r *collaboratorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Collaborator, error) {
	var collaborator domain.Collaborator
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&collaborator.ID,
		&collaborator.Name,
		&collaborator.Email,
		&collaborator.PasswordHash,
		&collaborator.RoleID,
		&collaborator.RoleName,
		&collaborator.Status,
		&collaborator.StatusReason,
		&collaborator.Active,
		&collaborator.CreatedAt,
		&collaborator.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.loadAssignments(ctx, &collaborator); err != nil {
		return nil, err
	}
	return &collaborator, nil
}

func (r *collaboratorRepository) List(ctx context.Context, filter CollaboratorFilter) ([]domain.Collaborator, error) {
	base := selectCollaborator
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RoleID != nil {
		args = append(args, *filter.RoleID)
		clauses = append(clauses, fmt.Sprintf("c.role_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("c.active_flag=$%d", len(args)))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM collaborator_companies cc WHERE cc.collaborator_id=c.id AND cc.company_id=$%d)", len(args)))
	}

	query := base + " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY c.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Collaborator
	for rows.Next() {
		var collaborator domain.Collaborator
		if err := rows.Scan(
			&collaborator.ID,
			&collaborator.Name,
			&collaborator.Email,
			&collaborator.PasswordHash,
			&collaborator.RoleID,
			&collaborator.RoleName,
			&collaborator.Status,
			&collaborator.StatusReason,
			&collaborator.Active,
			&collaborator.CreatedAt,
			&collaborator.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, collaborator)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadAssignments(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ReplaceAssignments rewrites both assignment sets atomically,
// preserving selection order through the position column.
func (r *collaboratorRepository) ReplaceAssignments(ctx context.Context, id string, companyIDs, deliveryPointIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM collaborator_companies WHERE collaborator_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM collaborator_delivery_points WHERE collaborator_id=$1`, id); err != nil {
		return err
	}
	for i, companyID := range companyIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO collaborator_companies (collaborator_id, company_id, position) VALUES ($1,$2,$3)`,
			id, companyID, i); err != nil {
			return err
		}
	}
	for i, pointID := range deliveryPointIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO collaborator_delivery_points (collaborator_id, delivery_point_id, position) VALUES ($1,$2,$3)`,
			id, pointID, i); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *collaboratorRepository) loadAssignments(ctx context.Context, collaborator *domain.Collaborator) error {
	companyRows, err := r.pool.Query(ctx,
		`SELECT company_id FROM collaborator_companies WHERE collaborator_id=$1 ORDER BY position ASC`,
		collaborator.ID)
	if err != nil {
		return err
	}
	defer companyRows.Close()
	for companyRows.Next() {
		var companyID string
		if err := companyRows.Scan(&companyID); err != nil {
			return err
		}
		collaborator.CompanyIDs = append(collaborator.CompanyIDs, companyID)
	}
	if err := companyRows.Err(); err != nil {
		return err
	}

	pointRows, err := r.pool.Query(ctx,
		`SELECT delivery_point_id FROM collaborator_delivery_points WHERE collaborator_id=$1 ORDER BY position ASC`,
		collaborator.ID)
	if err != nil {
		return err
	}
	defer pointRows.Close()
	for pointRows.Next() {
		var pointID string
		if err := pointRows.Scan(&pointID); err != nil {
			return err
		}
		collaborator.DeliveryPointIDs = append(collaborator.DeliveryPointIDs, pointID)
	}
	return pointRows.Err()
}
