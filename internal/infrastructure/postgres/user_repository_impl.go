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

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role_id, is_locked, is_active, created_at, updated_at`

func scanUser(row pgx.Row, u *entity.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID,
		&u.IsLocked, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

func (repo *UserRepository) Get(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	err := scanUser(repo.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u := &entity.User{}
	err := scanUser(repo.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username), u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	err := scanUser(repo.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepository) List(ctx context.Context, f repository.UserListFilter) ([]entity.User, int64, error) {
	where := ``
	args := []any{}
	if f.Search != "" {
		where = `WHERE username ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+f.Search+"%")
	}

	var total int64
	if err := repo.db.QueryRow(ctx, `SELECT count(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	args = append(args, f.PageSize, offset)
	limitPos, offsetPos := len(args)-1, len(args)
	rows, err := repo.db.Query(ctx, `
		SELECT `+userColumns+` FROM users `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $`+itoa(limitPos)+` OFFSET $`+itoa(offsetPos), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (repo *UserRepository) ListByIDs(ctx context.Context, ids []int64) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := repo.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (repo *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role_id, is_locked, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.PasswordHash, u.RoleID, u.IsLocked, u.IsActive)
	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (repo *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	tag, err := repo.db.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, role_id = $4,
		    is_locked = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`, u.Username, u.Email, u.PasswordHash, u.RoleID, u.IsLocked, u.IsActive, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
