package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

type AttachmentRepository struct {
	db Querier
}

func NewAttachmentRepository(db Querier) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

const attachmentColumns = `id, post_id, uploader_id, original_name, stored_name, mime_type, size_bytes, path, created_at`

func scanAttachment(row pgx.Row, a *entity.Attachment) error {
	return row.Scan(&a.ID, &a.PostID, &a.UploaderID, &a.OriginalName, &a.StoredName,
		&a.MimeType, &a.SizeBytes, &a.Path, &a.CreatedAt)
}

func (repo *AttachmentRepository) Get(ctx context.Context, id int64) (*entity.Attachment, error) {
	a := &entity.Attachment{}
	err := scanAttachment(repo.db.QueryRow(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("attachment not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (repo *AttachmentRepository) ListForPost(ctx context.Context, postID int64) ([]entity.Attachment, error) {
	rows, err := repo.db.Query(ctx, `
		SELECT `+attachmentColumns+` FROM attachments WHERE post_id = $1 ORDER BY id ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Attachment
	for rows.Next() {
		var a entity.Attachment
		if err := scanAttachment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (repo *AttachmentRepository) Create(ctx context.Context, a *entity.Attachment) error {
	row := repo.db.QueryRow(ctx, `
		INSERT INTO attachments (post_id, uploader_id, original_name, stored_name, mime_type, size_bytes, path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, a.PostID, a.UploaderID, a.OriginalName, a.StoredName, a.MimeType, a.SizeBytes, a.Path)
	return row.Scan(&a.ID, &a.CreatedAt)
}

var _ repository.AttachmentRepository = (*AttachmentRepository)(nil)
