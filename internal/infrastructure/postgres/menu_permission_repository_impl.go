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

type MenuPermissionRepository struct {
	db Querier
}

func NewMenuPermissionRepository(db Querier) *MenuPermissionRepository {
	return &MenuPermissionRepository{db: db}
}

const menuPermColumns = `id, menu_id, role_code, can_read, can_write, created_at, updated_at`

func scanMenuPerm(row pgx.Row, p *entity.MenuPermission) error {
	return row.Scan(&p.ID, &p.MenuID, &p.RoleCode, &p.CanRead, &p.CanWrite, &p.CreatedAt, &p.UpdatedAt)
}

func (repo *MenuPermissionRepository) Find(ctx context.Context, menuID int64, roleCode string) (*entity.MenuPermission, error) {
	p := &entity.MenuPermission{}
	err := scanMenuPerm(repo.db.QueryRow(ctx, `
		SELECT `+menuPermColumns+` FROM menu_permissions
		WHERE menu_id = $1 AND role_code = $2
	`, menuID, roleCode), p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *MenuPermissionRepository) ListForMenu(ctx context.Context, menuID int64) ([]entity.MenuPermission, error) {
	rows, err := repo.db.Query(ctx, `
		SELECT `+menuPermColumns+` FROM menu_permissions WHERE menu_id = $1
	`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenuPerms(rows)
}

func (repo *MenuPermissionRepository) ListForMenus(ctx context.Context, menuIDs []int64) ([]entity.MenuPermission, error) {
	if len(menuIDs) == 0 {
		return nil, nil
	}
	rows, err := repo.db.Query(ctx, `
		SELECT `+menuPermColumns+` FROM menu_permissions WHERE menu_id = ANY($1)
	`, menuIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenuPerms(rows)
}

func (repo *MenuPermissionRepository) ListForMenusByRole(ctx context.Context, menuIDs []int64, roleCode string) ([]entity.MenuPermission, error) {
	if len(menuIDs) == 0 {
		return nil, nil
	}
	rows, err := repo.db.Query(ctx, `
		SELECT `+menuPermColumns+` FROM menu_permissions
		WHERE menu_id = ANY($1) AND role_code = $2
	`, menuIDs, roleCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenuPerms(rows)
}

func collectMenuPerms(rows pgx.Rows) ([]entity.MenuPermission, error) {
	var out []entity.MenuPermission
	for rows.Next() {
		var p entity.MenuPermission
		if err := scanMenuPerm(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (repo *MenuPermissionRepository) Create(ctx context.Context, p *entity.MenuPermission) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO menu_permissions (menu_id, role_code, can_read, can_write)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.MenuID, p.RoleCode, p.CanRead, p.CanWrite)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (repo *MenuPermissionRepository) Update(ctx context.Context, p *entity.MenuPermission) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := repo.db.Exec(ctx, `
		UPDATE menu_permissions
		SET can_read = $1, can_write = $2, updated_at = $3
		WHERE id = $4
	`, p.CanRead, p.CanWrite, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("menu permission not found")
	}
	return nil
}

func (repo *MenuPermissionRepository) Delete(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM menu_permissions WHERE id = $1`, id)
	return err
}

var _ repository.MenuPermissionRepository = (*MenuPermissionRepository)(nil)
