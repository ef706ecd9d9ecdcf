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

type PostRepository struct {
	db Querier
}

func NewPostRepository(db Querier) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, board_id, title, content, author_id, is_pinned, is_deleted, view_count, qna_status, created_at, updated_at, deleted_at`

func scanPost(row pgx.Row, p *entity.Post) error {
	return row.Scan(&p.ID, &p.BoardID, &p.Title, &p.Content, &p.AuthorID, &p.IsPinned,
		&p.IsDeleted, &p.ViewCount, &p.QnaStatus, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
}

func (repo *PostRepository) Get(ctx context.Context, id int64) (*entity.Post, error) {
	p := &entity.Post{}
	err := scanPost(repo.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id), p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("post not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

var postSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"view_count": "view_count",
}

func (repo *PostRepository) List(ctx context.Context, f repository.PostListFilter) ([]entity.Post, int64, error) {
	where := `WHERE board_id = $1`
	args := []any{f.BoardID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += ` AND (title ILIKE $` + itoa(len(args)) + ` OR content ILIKE $` + itoa(len(args)) + `)`
	}
	if f.QnaStatus != "" {
		args = append(args, f.QnaStatus)
		where += ` AND qna_status = $` + itoa(len(args))
	}
	if f.IsPinned != nil {
		args = append(args, *f.IsPinned)
		where += ` AND is_pinned = $` + itoa(len(args))
	}
	if !f.IncludeDeleted {
		where += ` AND NOT is_deleted`
	}

	var total int64
	if err := repo.db.QueryRow(ctx, `SELECT count(*) FROM posts `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := postSortColumns[f.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}

	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	limitPos, offsetPos := len(args)-1, len(args)
	rows, err := repo.db.Query(ctx, `
		SELECT `+postColumns+` FROM posts `+where+`
		ORDER BY is_pinned DESC, `+sortCol+` `+dir+`, id DESC
		LIMIT $`+itoa(limitPos)+` OFFSET $`+itoa(offsetPos), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []entity.Post
	for rows.Next() {
		var p entity.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (repo *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO posts (board_id, title, content, author_id, is_pinned, qna_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, view_count, created_at, updated_at
	`, p.BoardID, p.Title, p.Content, p.AuthorID, p.IsPinned, p.QnaStatus)
	return row.Scan(&p.ID, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
}

func (repo *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := repo.db.Exec(ctx, `
		UPDATE posts
		SET title = $1, content = $2, is_pinned = $3, is_deleted = $4,
		    qna_status = $5, updated_at = $6, deleted_at = $7
		WHERE id = $8
	`, p.Title, p.Content, p.IsPinned, p.IsDeleted, p.QnaStatus, p.UpdatedAt, p.DeletedAt, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("post not found")
	}
	return nil
}

func (repo *PostRepository) IncrementViewCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := repo.db.QueryRow(ctx, `
		UPDATE posts SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count
	`, id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.NotFound("post not found")
	}
	return n, err
}

func (repo *PostRepository) CountVisible(ctx context.Context, boardIDs []int64) (int64, error) {
	var n int64
	var err error
	if boardIDs == nil {
		err = repo.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE NOT is_deleted`).Scan(&n)
	} else if len(boardIDs) == 0 {
		return 0, nil
	} else {
		err = repo.db.QueryRow(ctx, `
			SELECT count(*) FROM posts WHERE NOT is_deleted AND board_id = ANY($1)
		`, boardIDs).Scan(&n)
	}
	return n, err
}

var _ repository.PostRepository = (*PostRepository)(nil)
