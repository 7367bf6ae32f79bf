//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/testutil"
)

func seedTenant(ctx context.Context, t *testing.T, repo *TenantRepository) *domain.Tenant {
	t.Helper()
	tenant := &domain.Tenant{
		ID:        uuid.NewString(),
		Name:      "Tenant " + uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, tenant))
	return tenant
}

func TestAPIKeyRepository_CreateAndGetByHash(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenant := seedTenant(ctx, t, NewTenantRepository(pool))
	repo := NewAPIKeyRepository(pool)

	key := &domain.APIKey{
		ID:        uuid.NewString(),
		TenantID:  tenant.ID,
		Name:      "prod",
		KeyHash:   "hash-" + uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, key))

	retrieved, err := repo.GetByHash(ctx, key.KeyHash)
	require.NoError(t, err)
	assert.Equal(t, key.ID, retrieved.ID)
	assert.Equal(t, tenant.ID, retrieved.TenantID)
	assert.Nil(t, retrieved.RevokedAt)
}

func TestAPIKeyRepository_GetByHash_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAPIKeyRepository(pool)

	_, err := repo.GetByHash(ctx, "no-such-hash")
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotFound)
}

func TestAPIKeyRepository_GetByTenantID(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenant := seedTenant(ctx, t, NewTenantRepository(pool))
	repo := NewAPIKeyRepository(pool)

	first := &domain.APIKey{ID: uuid.NewString(), TenantID: tenant.ID, Name: "first", KeyHash: "h1", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	second := &domain.APIKey{ID: uuid.NewString(), TenantID: tenant.ID, Name: "second", KeyHash: "h2", CreatedAt: time.Now().UTC().Add(time.Second).Truncate(time.Microsecond)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	keys, err := repo.GetByTenantID(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "second", keys[0].Name)
	assert.Equal(t, "first", keys[1].Name)
}

func TestAPIKeyRepository_Revoke(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenant := seedTenant(ctx, t, NewTenantRepository(pool))
	repo := NewAPIKeyRepository(pool)

	key := &domain.APIKey{ID: uuid.NewString(), TenantID: tenant.ID, Name: "prod", KeyHash: "h1", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	require.NoError(t, repo.Create(ctx, key))

	require.NoError(t, repo.Revoke(ctx, key.ID))

	retrieved, err := repo.GetByHash(ctx, key.KeyHash)
	require.NoError(t, err)
	require.NotNil(t, retrieved.RevokedAt)
	assert.True(t, retrieved.IsRevoked())

	// Revoking an already revoked key reports not found.
	err = repo.Revoke(ctx, key.ID)
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotFound)
}

func TestAPIKeyRepository_Revoke_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAPIKeyRepository(pool)

	err := repo.Revoke(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotFound)
}

func TestAPIKeyRepository_TenantCascadeDelete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenant := seedTenant(ctx, t, NewTenantRepository(pool))
	repo := NewAPIKeyRepository(pool)

	key := &domain.APIKey{ID: uuid.NewString(), TenantID: tenant.ID, Name: "prod", KeyHash: "h1", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	require.NoError(t, repo.Create(ctx, key))

	_, err := pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenant.ID)
	require.NoError(t, err)

	_, err = repo.GetByHash(ctx, key.KeyHash)
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotFound)
}
