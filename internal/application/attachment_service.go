package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
	"github.com/corpboard/corpboard/pkg/storage"
)

// MaxAttachmentSize caps uploads at 20 MiB.
const MaxAttachmentSize = 20 << 20

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true, ".csv": true, ".zip": true,
}

// AttachmentService stores uploads in the object store and records their
// metadata. Downloads stream back through the board read gate.
type AttachmentService struct {
	repos  repository.Set
	perms  *PermissionService
	store  storage.ObjectStore
	logger *logrus.Logger
}

func NewAttachmentService(repos repository.Set, perms *PermissionService, store storage.ObjectStore, logger *logrus.Logger) *AttachmentService {
	return &AttachmentService{repos: repos, perms: perms, store: store, logger: logger}
}

// Upload validates and stores a file against a post the caller can write to.
func (s *AttachmentService) Upload(ctx context.Context, p *Principal, postID int64, filename, contentType string, size int64, r io.Reader) (*AttachmentView, error) {
	if size > MaxAttachmentSize {
		return nil, apperr.BadRequest("file exceeds the 20 MiB limit")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, apperr.BadRequest("file type %s is not allowed", ext)
	}

	post, err := s.repos.Posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted && !p.IsAdmin() {
		return nil, apperr.NotFound("post %d not found", postID)
	}
	if _, err := s.perms.EnsureBoardPermission(ctx, post.BoardID, p, entity.ActionWrite); err != nil {
		return nil, err
	}

	now := time.Now()
	storedName := uuid.NewString() + ext
	objectPath := fmt.Sprintf("attachments/%04d/%02d/%s", now.Year(), int(now.Month()), storedName)
	if _, err := s.store.Put(ctx, objectPath, contentType, io.LimitReader(r, MaxAttachmentSize)); err != nil {
		return nil, err
	}

	a := &entity.Attachment{
		PostID:       post.ID,
		UploaderID:   p.ID,
		OriginalName: filepath.Base(filename),
		StoredName:   storedName,
		MimeType:     contentType,
		SizeBytes:    size,
		Path:         objectPath,
	}
	if err := s.repos.Attachments.Create(ctx, a); err != nil {
		// best-effort cleanup of the orphaned object
		if derr := s.store.Delete(ctx, objectPath); derr != nil {
			s.logger.WithError(derr).WithField("path", objectPath).Warn("orphaned attachment cleanup failed")
		}
		return nil, err
	}
	return &AttachmentView{
		ID:           a.ID,
		OriginalName: a.OriginalName,
		MimeType:     a.MimeType,
		SizeBytes:    a.SizeBytes,
		CreatedAt:    a.CreatedAt,
	}, nil
}

// Open returns the attachment metadata and a reader for its content after
// passing the board read gate.
func (s *AttachmentService) Open(ctx context.Context, p *Principal, attachmentID int64) (*entity.Attachment, io.ReadCloser, error) {
	a, err := s.repos.Attachments.Get(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	post, err := s.repos.Posts.Get(ctx, a.PostID)
	if err != nil {
		return nil, nil, err
	}
	if post.IsDeleted && !p.IsAdmin() {
		return nil, nil, apperr.NotFound("attachment %d not found", attachmentID)
	}
	if _, err := s.perms.EnsureBoardPermission(ctx, post.BoardID, p, entity.ActionRead); err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, a.Path)
	if err != nil {
		return nil, nil, err
	}
	return a, rc, nil
}
