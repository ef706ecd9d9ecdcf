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

type CommentRepository struct {
	db Querier
}

func NewCommentRepository(db Querier) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, post_id, author_id, content, is_deleted, created_at, updated_at, deleted_at`

func scanComment(row pgx.Row, c *entity.Comment) error {
	return row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.IsDeleted,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
}

func (repo *CommentRepository) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	c := &entity.Comment{}
	err := scanComment(repo.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id), c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("comment not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (repo *CommentRepository) ListForPost(ctx context.Context, postID int64, includeDeleted bool) ([]entity.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1`
	if !includeDeleted {
		q += ` AND NOT is_deleted`
	}
	q += ` ORDER BY created_at ASC, id ASC`

	rows, err := repo.db.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Comment
	for rows.Next() {
		var c entity.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (repo *CommentRepository) CountForPosts(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	rows, err := repo.db.Query(ctx, `
		SELECT post_id, count(*) FROM comments
		WHERE post_id = ANY($1) AND NOT is_deleted
		GROUP BY post_id
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var n int
		if err := rows.Scan(&postID, &n); err != nil {
			return nil, err
		}
		counts[postID] = n
	}
	return counts, rows.Err()
}

func (repo *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.PostID, c.AuthorID, c.Content)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (repo *CommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := repo.db.Exec(ctx, `
		UPDATE comments
		SET content = $1, is_deleted = $2, updated_at = $3, deleted_at = $4
		WHERE id = $5
	`, c.Content, c.IsDeleted, c.UpdatedAt, c.DeletedAt, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
