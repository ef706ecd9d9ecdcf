package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
	"github.com/corpboard/corpboard/pkg/helpers"
	"github.com/corpboard/corpboard/pkg/mailer"
)

const commentExcerptLen = 120

// CommentService owns comments on posts. Creating a comment enqueues an
// email notification for the post author; the publish is best-effort.
type CommentService struct {
	repos     repository.Set
	perms     *PermissionService
	publisher *helpers.RabbitPublisher
	logger    *logrus.Logger
}

func NewCommentService(repos repository.Set, perms *PermissionService, publisher *helpers.RabbitPublisher, logger *logrus.Logger) *CommentService {
	return &CommentService{repos: repos, perms: perms, publisher: publisher, logger: logger}
}

type CommentView struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListForPost returns a post's comments through the read gate. Soft-deleted
// comments are included only for ADMIN.
func (s *CommentService) ListForPost(ctx context.Context, p *Principal, postID int64) ([]CommentView, error) {
	post, err := s.readablePost(ctx, p, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.ListForPost(ctx, post.ID, p.IsAdmin())
	if err != nil {
		return nil, err
	}

	authorIDs := make([]int64, 0, len(comments))
	seen := map[int64]bool{}
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	names := map[int64]string{}
	if len(authorIDs) > 0 {
		users, err := s.repos.Users.ListByIDs(ctx, authorIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.Username
		}
	}

	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentView{
			ID:         c.ID,
			PostID:     c.PostID,
			AuthorID:   c.AuthorID,
			AuthorName: names[c.AuthorID],
			Content:    c.Content,
			IsDeleted:  c.IsDeleted,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		})
	}
	return out, nil
}

type CommentInput struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// Create adds a comment through the board write gate and notifies the post
// author by email unless they commented on their own post.
func (s *CommentService) Create(ctx context.Context, p *Principal, postID int64, in CommentInput) (*CommentView, error) {
	post, err := s.repos.Posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted && !p.IsAdmin() {
		return nil, apperr.NotFound("post %d not found", postID)
	}
	board, err := s.perms.EnsureBoardPermission(ctx, post.BoardID, p, entity.ActionWrite)
	if err != nil {
		return nil, err
	}

	c := &entity.Comment{PostID: post.ID, AuthorID: p.ID, Content: in.Content}
	if err := s.repos.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	s.notifyAuthor(ctx, board, post, p, c)

	return &CommentView{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorID:   c.AuthorID,
		AuthorName: p.Username,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}, nil
}

type CommentUpdate struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// Update edits a comment (author or manager). The board read gate applies.
func (s *CommentService) Update(ctx context.Context, p *Principal, commentID int64, in CommentUpdate) (*CommentView, error) {
	c, err := s.editableComment(ctx, p, commentID)
	if err != nil {
		return nil, err
	}
	c.Content = in.Content
	if err := s.repos.Comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return &CommentView{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorID:   c.AuthorID,
		AuthorName: p.Username,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}, nil
}

// Delete soft-deletes a comment (author or manager).
func (s *CommentService) Delete(ctx context.Context, p *Principal, commentID int64) error {
	c, err := s.editableComment(ctx, p, commentID)
	if err != nil {
		return err
	}
	now := time.Now()
	c.IsDeleted = true
	c.DeletedAt = &now
	return s.repos.Comments.Update(ctx, c)
}

func (s *CommentService) editableComment(ctx context.Context, p *Principal, commentID int64) (*entity.Comment, error) {
	c, err := s.repos.Comments.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted && !p.IsAdmin() {
		return nil, apperr.NotFound("comment %d not found", commentID)
	}
	if _, err := s.readablePost(ctx, p, c.PostID); err != nil {
		return nil, err
	}
	if c.AuthorID != p.ID && !p.HasAdminPrivilege() {
		return nil, apperr.Forbidden("not the author of this comment")
	}
	return c, nil
}

func (s *CommentService) readablePost(ctx context.Context, p *Principal, postID int64) (*entity.Post, error) {
	post, err := s.repos.Posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted && !p.IsAdmin() {
		return nil, apperr.NotFound("post %d not found", postID)
	}
	if _, err := s.perms.EnsureBoardPermission(ctx, post.BoardID, p, entity.ActionRead); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *CommentService) notifyAuthor(ctx context.Context, board *entity.Board, post *entity.Post, commenter *Principal, c *entity.Comment) {
	if s.publisher == nil || post.AuthorID == commenter.ID {
		return
	}
	author, err := s.repos.Users.Get(ctx, post.AuthorID)
	if err != nil || author.Email == "" {
		return
	}
	excerpt := c.Content
	if len(excerpt) > commentExcerptLen {
		excerpt = excerpt[:commentExcerptLen] + "..."
	}
	job := mailer.CommentNotifyJob{
		To:             author.Email,
		AuthorName:     author.Username,
		PostID:         post.ID,
		PostTitle:      post.Title,
		BoardName:      board.Name,
		CommenterName:  commenter.Username,
		CommentExcerpt: excerpt,
	}
	if err := s.publisher.PublishJSON(ctx, job); err != nil {
		s.logger.WithError(err).WithField("post_id", post.ID).Warn("publish comment notification failed")
	}
}
