package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// LikeService toggles likes on posts behind the board read gate.
type LikeService struct {
	repos  repository.Set
	perms  *PermissionService
	logger *logrus.Logger
}

func NewLikeService(repos repository.Set, perms *PermissionService, logger *logrus.Logger) *LikeService {
	return &LikeService{repos: repos, perms: perms, logger: logger}
}

type LikeStatus struct {
	PostID    int64 `json:"post_id"`
	Liked     bool  `json:"liked"`
	LikeCount int   `json:"like_count"`
}

// Toggle flips the caller's like on the post and returns the new state.
func (s *LikeService) Toggle(ctx context.Context, p *Principal, postID int64) (*LikeStatus, error) {
	if err := s.gate(ctx, p, postID); err != nil {
		return nil, err
	}
	existing, err := s.repos.Likes.Find(ctx, postID, p.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.repos.Likes.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.repos.Likes.Create(ctx, &entity.PostLike{PostID: postID, UserID: p.ID}); err != nil {
			return nil, err
		}
	}
	count, err := s.repos.Likes.Count(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeStatus{PostID: postID, Liked: existing == nil, LikeCount: count}, nil
}

// Status reports whether the caller liked the post plus the total count.
func (s *LikeService) Status(ctx context.Context, p *Principal, postID int64) (*LikeStatus, error) {
	if err := s.gate(ctx, p, postID); err != nil {
		return nil, err
	}
	existing, err := s.repos.Likes.Find(ctx, postID, p.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.repos.Likes.Count(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeStatus{PostID: postID, Liked: existing != nil, LikeCount: count}, nil
}

func (s *LikeService) gate(ctx context.Context, p *Principal, postID int64) error {
	post, err := s.repos.Posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.IsDeleted && !p.IsAdmin() {
		return apperr.NotFound("post %d not found", postID)
	}
	_, err = s.perms.EnsureBoardPermission(ctx, post.BoardID, p, entity.ActionRead)
	return err
}
