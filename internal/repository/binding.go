package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javobly/javob/internal/domain"
)

type BindingRepository struct {
	pool *pgxpool.Pool
}

func NewBindingRepository(pool *pgxpool.Pool) *BindingRepository {
	return &BindingRepository{pool: pool}
}

func (r *BindingRepository) Create(ctx context.Context, b *domain.BotBinding) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bot_bindings (id, tenant_id, token, bot_username, webhook_url, webhook_secret, language, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.TenantID, b.Token, b.BotUsername, b.WebhookURL, b.WebhookSecret, b.Language, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *BindingRepository) Update(ctx context.Context, b *domain.BotBinding) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bot_bindings
		 SET token = $2, bot_username = $3, webhook_url = $4, webhook_secret = $5, language = $6, updated_at = $7
		 WHERE id = $1`,
		b.ID, b.Token, b.BotUsername, b.WebhookURL, b.WebhookSecret, b.Language, b.UpdatedAt,
	)
	return err
}

func (r *BindingRepository) GetByTenant(ctx context.Context, tenantID string) (*domain.BotBinding, error) {
	return r.getOne(ctx,
		`SELECT id, tenant_id, token, bot_username, webhook_url, webhook_secret, language, created_at, updated_at
		 FROM bot_bindings WHERE tenant_id = $1`,
		tenantID,
	)
}

func (r *BindingRepository) GetByToken(ctx context.Context, token string) (*domain.BotBinding, error) {
	return r.getOne(ctx,
		`SELECT id, tenant_id, token, bot_username, webhook_url, webhook_secret, language, created_at, updated_at
		 FROM bot_bindings WHERE token = $1`,
		token,
	)
}

func (r *BindingRepository) Delete(ctx context.Context, tenantID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bot_bindings WHERE tenant_id = $1`, tenantID)
	return err
}

func (r *BindingRepository) getOne(ctx context.Context, sql string, arg any) (*domain.BotBinding, error) {
	var b domain.BotBinding
	err := r.pool.QueryRow(ctx, sql, arg).Scan(
		&b.ID, &b.TenantID, &b.Token, &b.BotUsername, &b.WebhookURL, &b.WebhookSecret, &b.Language, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBindingNotFound
		}
		return nil, err
	}
	return &b, nil
}
