package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/helpers"
)

const dashboardCacheTTL = 30 * time.Second

// DashboardService aggregates counts for the landing page. Non-admins see
// numbers scoped to the boards they can actually read; results are cached
// per role in redis for a short window.
type DashboardService struct {
	repos  repository.Set
	perms  *PermissionService
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewDashboardService(repos repository.Set, perms *PermissionService, rdb *redis.Client, logger *logrus.Logger) *DashboardService {
	return &DashboardService{repos: repos, perms: perms, rdb: rdb, logger: logger}
}

type DashboardSummary struct {
	BoardCount int64 `json:"board_count"`
	PostCount  int64 `json:"post_count"`
	UserCount  int64 `json:"user_count,omitempty"`
}

func dashboardCacheKey(roleCode string) string {
	return "dashboard:summary:" + roleCode
}

// Summary builds (or reads from cache) the caller's dashboard numbers.
func (s *DashboardService) Summary(ctx context.Context, p *Principal) (*DashboardSummary, error) {
	key := dashboardCacheKey(p.RoleCode)
	if s.rdb != nil {
		var cached DashboardSummary
		if hit, err := helpers.RedisGetJSON(ctx, s.rdb, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	sum, err := s.build(ctx, p)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := helpers.RedisSetJSON(ctx, s.rdb, key, sum, dashboardCacheTTL); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("dashboard cache write failed")
		}
	}
	return sum, nil
}

func (s *DashboardService) build(ctx context.Context, p *Principal) (*DashboardSummary, error) {
	if p.IsAdmin() {
		boardCount, err := s.repos.Boards.Count(ctx, false)
		if err != nil {
			return nil, err
		}
		postCount, err := s.repos.Posts.CountVisible(ctx, nil)
		if err != nil {
			return nil, err
		}
		_, userCount, err := s.repos.Users.List(ctx, repository.UserListFilter{Page: 1, PageSize: 1})
		if err != nil {
			return nil, err
		}
		return &DashboardSummary{BoardCount: boardCount, PostCount: postCount, UserCount: userCount}, nil
	}

	boards, err := s.repos.Boards.List(ctx, false)
	if err != nil {
		return nil, err
	}
	visible := make([]int64, 0, len(boards))
	for i := range boards {
		ok, err := s.perms.CanAccessBoardByMenu(ctx, &boards[i], p.RoleCode, entity.ActionRead)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, boards[i].ID)
		}
	}
	postCount, err := s.repos.Posts.CountVisible(ctx, visible)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{BoardCount: int64(len(visible)), PostCount: postCount}, nil
}
