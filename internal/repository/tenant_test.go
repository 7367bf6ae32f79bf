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

func TestTenantRepository_Create(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewTenantRepository(pool)

	tenant := &domain.Tenant{
		ID:        uuid.NewString(),
		Name:      "Plov House",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	err := repo.Create(ctx, tenant)
	require.NoError(t, err)

	retrieved, err := repo.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, retrieved.ID)
	assert.Equal(t, tenant.Name, retrieved.Name)
}

func TestTenantRepository_Create_DuplicateName(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewTenantRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Create(ctx, &domain.Tenant{ID: uuid.NewString(), Name: "Plov House", CreatedAt: now}))

	err := repo.Create(ctx, &domain.Tenant{ID: uuid.NewString(), Name: "Plov House", CreatedAt: now})
	assert.Error(t, err)
}

func TestTenantRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewTenantRepository(pool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestTenantRepository_GetByName(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewTenantRepository(pool)

	tenant := &domain.Tenant{ID: uuid.NewString(), Name: "Samarkand Tours", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	require.NoError(t, repo.Create(ctx, tenant))

	retrieved, err := repo.GetByName(ctx, "Samarkand Tours")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, retrieved.ID)

	_, err = repo.GetByName(ctx, "Ghost Tours")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestTenantRepository_List(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewTenantRepository(pool)

	t1 := &domain.Tenant{ID: uuid.NewString(), Name: "First", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	t2 := &domain.Tenant{ID: uuid.NewString(), Name: "Second", CreatedAt: time.Now().UTC().Add(time.Second).Truncate(time.Microsecond)}

	require.NoError(t, repo.Create(ctx, t1))
	require.NoError(t, repo.Create(ctx, t2))

	tenants, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, "First", tenants[0].Name)
	assert.Equal(t, "Second", tenants[1].Name)
}
