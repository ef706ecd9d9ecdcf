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

type RoleRepository struct {
	db Querier
}

func NewRoleRepository(db Querier) *RoleRepository {
	return &RoleRepository{db: db}
}

const roleColumns = `id, code, name, description, system_permissions, created_at, updated_at`

func scanRole(row pgx.Row, r *entity.Role) error {
	return row.Scan(&r.ID, &r.Code, &r.Name, &r.Description, &r.SystemPermissions, &r.CreatedAt, &r.UpdatedAt)
}

func (repo *RoleRepository) List(ctx context.Context) ([]entity.Role, error) {
	rows, err := repo.db.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Role
	for rows.Next() {
		var r entity.Role
		if err := scanRole(rows, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (repo *RoleRepository) GetByCode(ctx context.Context, code string) (*entity.Role, error) {
	r := &entity.Role{}
	err := scanRole(repo.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE code = $1`, code), r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("role %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (repo *RoleRepository) Get(ctx context.Context, id int64) (*entity.Role, error) {
	r := &entity.Role{}
	err := scanRole(repo.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id), r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("role not found")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (repo *RoleRepository) Create(ctx context.Context, r *entity.Role) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO roles (code, name, description, system_permissions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.Code, r.Name, r.Description, r.SystemPermissions)
	return row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

func (repo *RoleRepository) Update(ctx context.Context, r *entity.Role) error {
	r.UpdatedAt = time.Now().UTC()
	tag, err := repo.db.Exec(ctx, `
		UPDATE roles
		SET name = $1, description = $2, system_permissions = $3, updated_at = $4
		WHERE id = $5
	`, r.Name, r.Description, r.SystemPermissions, r.UpdatedAt, r.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("role not found")
	}
	return nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
