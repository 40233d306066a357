package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/logistics-console/internal/domain"
)

const (
	roleCacheKey = "roles:catalog"
	roleCacheTTL = time.Hour
)

// cachedRoleRepository fronts the role catalog with Redis. Roles are
// immutable reference data, so a miss or a redis outage simply falls
// through to postgres.
type cachedRoleRepository struct {
	inner  RoleRepository
	client *redis.Client
}

// NewCachedRoleRepository decorates a role repository with a Redis cache.
func NewCachedRoleRepository(inner RoleRepository, client *redis.Client) RoleRepository {
	if client == nil {
		return inner
	}
	return &cachedRoleRepository{inner: inner, client: client}
}

func (r *cachedRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	if cached, err := r.client.Get(ctx, roleCacheKey).Bytes(); err == nil {
		var roles []domain.Role
		if err := json.Unmarshal(cached, &roles); err == nil {
			return roles, nil
		}
	}

	roles, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(roles); err == nil {
		_ = r.client.Set(ctx, roleCacheKey, payload, roleCacheTTL).Err()
	}
	return roles, nil
}

func (r *cachedRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	roles, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if roles[i].ID == id {
			return &roles[i], nil
		}
	}
	return r.inner.GetByID(ctx, id)
}

func (r *cachedRoleRepository) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	roles, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if roles[i].Name == name {
			return &roles[i], nil
		}
	}
	return r.inner.GetByName(ctx, name)
}
