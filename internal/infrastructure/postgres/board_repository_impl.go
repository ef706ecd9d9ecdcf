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

type BoardRepository struct {
	db Querier
}

func NewBoardRepository(db Querier) *BoardRepository {
	return &BoardRepository{db: db}
}

const boardColumns = `id, key, name, description, board_type, is_active, sort_order, read_roles, write_roles, created_at, updated_at`

func scanBoard(row pgx.Row, b *entity.Board) error {
	return row.Scan(&b.ID, &b.Key, &b.Name, &b.Description, &b.BoardType, &b.IsActive,
		&b.SortOrder, &b.ReadRoles, &b.WriteRoles, &b.CreatedAt, &b.UpdatedAt)
}

func (repo *BoardRepository) Get(ctx context.Context, id int64) (*entity.Board, error) {
	b := &entity.Board{}
	err := scanBoard(repo.db.QueryRow(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = $1`, id), b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("board not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (repo *BoardRepository) GetByKey(ctx context.Context, key string) (*entity.Board, error) {
	b := &entity.Board{}
	err := scanBoard(repo.db.QueryRow(ctx, `SELECT `+boardColumns+` FROM boards WHERE key = $1`, key), b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("board not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (repo *BoardRepository) List(ctx context.Context, includeInactive bool) ([]entity.Board, error) {
	q := `SELECT ` + boardColumns + ` FROM boards`
	if !includeInactive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY sort_order ASC, id ASC`

	rows, err := repo.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBoards(rows)
}

func (repo *BoardRepository) ListByIDs(ctx context.Context, ids []int64) ([]entity.Board, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := repo.db.Query(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBoards(rows)
}

func collectBoards(rows pgx.Rows) ([]entity.Board, error) {
	var out []entity.Board
	for rows.Next() {
		var b entity.Board
		if err := scanBoard(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (repo *BoardRepository) Create(ctx context.Context, b *entity.Board) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO boards (key, name, description, board_type, is_active, sort_order, read_roles, write_roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, b.Key, b.Name, b.Description, b.BoardType, b.IsActive, b.SortOrder, b.ReadRoles, b.WriteRoles)
	return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (repo *BoardRepository) Update(ctx context.Context, b *entity.Board) error {
	b.UpdatedAt = time.Now().UTC()
	tag, err := repo.db.Exec(ctx, `
		UPDATE boards
		SET key = $1, name = $2, description = $3, board_type = $4, is_active = $5,
		    sort_order = $6, read_roles = $7, write_roles = $8, updated_at = $9
		WHERE id = $10
	`, b.Key, b.Name, b.Description, b.BoardType, b.IsActive, b.SortOrder, b.ReadRoles, b.WriteRoles, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("board not found")
	}
	return nil
}

func (repo *BoardRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := `SELECT count(*) FROM boards`
	if activeOnly {
		q += ` WHERE is_active`
	}
	var n int64
	err := repo.db.QueryRow(ctx, q).Scan(&n)
	return n, err
}

var _ repository.BoardRepository = (*BoardRepository)(nil)
