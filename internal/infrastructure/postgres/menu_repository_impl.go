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

type MenuRepository struct {
	db Querier
}

func NewMenuRepository(db Querier) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, name, path, icon, parent_id, board_id, sort_order, is_active, created_at, updated_at`

func scanMenu(row pgx.Row, m *entity.Menu) error {
	return row.Scan(&m.ID, &m.Name, &m.Path, &m.Icon, &m.ParentID, &m.BoardID,
		&m.SortOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
}

func (repo *MenuRepository) Get(ctx context.Context, id int64) (*entity.Menu, error) {
	m := &entity.Menu{}
	err := scanMenu(repo.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = $1`, id), m)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("menu not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (repo *MenuRepository) List(ctx context.Context) ([]entity.Menu, error) {
	rows, err := repo.db.Query(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenus(rows)
}

func (repo *MenuRepository) ListActive(ctx context.Context) ([]entity.Menu, error) {
	rows, err := repo.db.Query(ctx, `SELECT `+menuColumns+` FROM menus WHERE is_active ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenus(rows)
}

func (repo *MenuRepository) ActiveItemIDsForBoard(ctx context.Context, boardID int64) ([]int64, error) {
	rows, err := repo.db.Query(ctx, `
		SELECT id FROM menus
		WHERE board_id = $1 AND is_active AND path <> $2
	`, boardID, entity.CategoryPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (repo *MenuRepository) ListBoardBound(ctx context.Context) ([]entity.Menu, error) {
	rows, err := repo.db.Query(ctx, `
		SELECT `+menuColumns+` FROM menus
		WHERE path <> $1 AND board_id IS NOT NULL
		ORDER BY sort_order ASC, id ASC
	`, entity.CategoryPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMenus(rows)
}

func (repo *MenuRepository) HasChildren(ctx context.Context, parentID int64) (bool, error) {
	var exists bool
	err := repo.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menus WHERE parent_id = $1)`, parentID).Scan(&exists)
	return exists, err
}

func collectMenus(rows pgx.Rows) ([]entity.Menu, error) {
	var out []entity.Menu
	for rows.Next() {
		var m entity.Menu
		if err := scanMenu(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (repo *MenuRepository) Create(ctx context.Context, m *entity.Menu) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO menus (name, path, icon, parent_id, board_id, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, m.Name, m.Path, m.Icon, m.ParentID, m.BoardID, m.SortOrder, m.IsActive)
	return row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (repo *MenuRepository) Update(ctx context.Context, m *entity.Menu) error {
	m.UpdatedAt = time.Now().UTC()
	tag, err := repo.db.Exec(ctx, `
		UPDATE menus
		SET name = $1, path = $2, icon = $3, parent_id = $4, board_id = $5,
		    sort_order = $6, is_active = $7, updated_at = $8
		WHERE id = $9
	`, m.Name, m.Path, m.Icon, m.ParentID, m.BoardID, m.SortOrder, m.IsActive, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("menu not found")
	}
	return nil
}

func (repo *MenuRepository) Delete(ctx context.Context, id int64) error {
	tag, err := repo.db.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("menu not found")
	}
	return nil
}

func (repo *MenuRepository) UpdateSortOrder(ctx context.Context, id int64, sortOrder int) error {
	tag, err := repo.db.Exec(ctx, `
		UPDATE menus SET sort_order = $1, updated_at = $2 WHERE id = $3
	`, sortOrder, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("menu %d not found", id)
	}
	return nil
}

var _ repository.MenuRepository = (*MenuRepository)(nil)
