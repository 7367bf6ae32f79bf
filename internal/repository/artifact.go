package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javobly/javob/internal/domain"
)

type ArtifactRepository struct {
	db dbtx
}

func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{db: pool}
}

func NewArtifactRepositoryWithTx(tx pgx.Tx) *ArtifactRepository {
	return &ArtifactRepository{db: tx}
}

func (r *ArtifactRepository) Create(ctx context.Context, a *domain.Artifact) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO artifacts (id, tenant_id, file_name, storage_key, content, uploaded_at, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.TenantID, a.FileName, a.StorageKey, a.Content, a.UploadedAt, a.Active,
	)
	return err
}

func (r *ArtifactRepository) GetActiveByTenant(ctx context.Context, tenantID string) (*domain.Artifact, error) {
	var a domain.Artifact
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, file_name, storage_key, content, uploaded_at, active
		 FROM artifacts WHERE tenant_id = $1 AND active ORDER BY uploaded_at DESC LIMIT 1`,
		tenantID,
	).Scan(&a.ID, &a.TenantID, &a.FileName, &a.StorageKey, &a.Content, &a.UploadedAt, &a.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ArtifactRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM artifacts WHERE id = $1`, id)
	return err
}

// LockTenant takes a transaction-scoped advisory lock on the tenant so
// concurrent artifact swaps for the same tenant serialize. Released on
// commit or rollback.
func (r *ArtifactRepository) LockTenant(ctx context.Context, tenantID string) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, tenantID)
	return err
}
