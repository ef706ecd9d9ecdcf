package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
)

type LikeRepository struct {
	db Querier
}

func NewLikeRepository(db Querier) *LikeRepository {
	return &LikeRepository{db: db}
}

func (repo *LikeRepository) Find(ctx context.Context, postID, userID int64) (*entity.PostLike, error) {
	l := &entity.PostLike{}
	err := repo.db.QueryRow(ctx, `
		SELECT id, post_id, user_id, created_at FROM post_likes
		WHERE post_id = $1 AND user_id = $2
	`, postID, userID).Scan(&l.ID, &l.PostID, &l.UserID, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (repo *LikeRepository) Count(ctx context.Context, postID int64) (int, error) {
	var n int
	err := repo.db.QueryRow(ctx, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}

func (repo *LikeRepository) CountForPosts(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	rows, err := repo.db.Query(ctx, `
		SELECT post_id, count(*) FROM post_likes
		WHERE post_id = ANY($1)
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

func (repo *LikeRepository) LikedPostIDs(ctx context.Context, postIDs []int64, userID int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	rows, err := repo.db.Query(ctx, `
		SELECT post_id FROM post_likes
		WHERE post_id = ANY($1) AND user_id = $2
	`, postIDs, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		if err := rows.Scan(&postID); err != nil {
			return nil, err
		}
		liked[postID] = true
	}
	return liked, rows.Err()
}

func (repo *LikeRepository) Create(ctx context.Context, l *entity.PostLike) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, l.PostID, l.UserID)
	return row.Scan(&l.ID, &l.CreatedAt)
}

func (repo *LikeRepository) Delete(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM post_likes WHERE id = $1`, id)
	return err
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
