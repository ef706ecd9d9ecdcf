package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

type RefreshTokenRepository struct {
	db Querier
}

func NewRefreshTokenRepository(db Querier) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (repo *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	t := &entity.RefreshToken{}
	err := repo.db.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
		FROM refresh_tokens WHERE token_hash = $1
	`, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("refresh token not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (repo *RefreshTokenRepository) Create(ctx context.Context, t *entity.RefreshToken) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, t.UserID, t.TokenHash, t.ExpiresAt)
	return row.Scan(&t.ID, &t.CreatedAt)
}

func (repo *RefreshTokenRepository) Revoke(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL
	`, time.Now().UTC(), id)
	return err
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepository)(nil)
