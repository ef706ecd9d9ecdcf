package repository

import (
	"context"

	"github.com/corpboard/corpboard/internal/domain/entity"
)

// RoleRepository manages the role registry. List returns roles in id order;
// that order doubles as display rank for role-code lists.
type RoleRepository interface {
	List(ctx context.Context) ([]entity.Role, error)
	GetByCode(ctx context.Context, code string) (*entity.Role, error)
	Get(ctx context.Context, id int64) (*entity.Role, error)
	Create(ctx context.Context, r *entity.Role) error
	Update(ctx context.Context, r *entity.Role) error
}

// UserListFilter narrows admin user listings.
type UserListFilter struct {
	Search   string
	Page     int
	PageSize int
}

type UserRepository interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f UserListFilter) ([]entity.User, int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
}

type BoardRepository interface {
	Get(ctx context.Context, id int64) (*entity.Board, error)
	GetByKey(ctx context.Context, key string) (*entity.Board, error)
	// List returns boards ordered by sort_order then id. Inactive boards are
	// included only when includeInactive is set.
	List(ctx context.Context, includeInactive bool) ([]entity.Board, error)
	ListByIDs(ctx context.Context, ids []int64) ([]entity.Board, error)
	Create(ctx context.Context, b *entity.Board) error
	Update(ctx context.Context, b *entity.Board) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type MenuRepository interface {
	Get(ctx context.Context, id int64) (*entity.Menu, error)
	// List returns every menu ordered by sort_order then id.
	List(ctx context.Context) ([]entity.Menu, error)
	// ListActive returns active menus in the same order.
	ListActive(ctx context.Context) ([]entity.Menu, error)
	// ActiveItemIDsForBoard returns ids of active non-category menus bound to
	// the board.
	ActiveItemIDsForBoard(ctx context.Context, boardID int64) ([]int64, error)
	// ListBoardBound returns non-category menus with a board binding,
	// regardless of active state.
	ListBoardBound(ctx context.Context) ([]entity.Menu, error)
	HasChildren(ctx context.Context, parentID int64) (bool, error)
	Create(ctx context.Context, m *entity.Menu) error
	Update(ctx context.Context, m *entity.Menu) error
	Delete(ctx context.Context, id int64) error
	UpdateSortOrder(ctx context.Context, id int64, sortOrder int) error
}

type MenuPermissionRepository interface {
	// Find returns the explicit grant for (menuID, roleCode), or nil when no
	// row exists.
	Find(ctx context.Context, menuID int64, roleCode string) (*entity.MenuPermission, error)
	ListForMenu(ctx context.Context, menuID int64) ([]entity.MenuPermission, error)
	ListForMenus(ctx context.Context, menuIDs []int64) ([]entity.MenuPermission, error)
	ListForMenusByRole(ctx context.Context, menuIDs []int64, roleCode string) ([]entity.MenuPermission, error)
	Create(ctx context.Context, p *entity.MenuPermission) error
	Update(ctx context.Context, p *entity.MenuPermission) error
	Delete(ctx context.Context, id int64) error
}

// PostListFilter narrows and orders post listings.
type PostListFilter struct {
	BoardID        int64
	Search         string
	QnaStatus      string
	IsPinned       *bool
	IncludeDeleted bool
	SortBy         string // created_at, updated_at, title, view_count
	SortDesc       bool
	Page           int
	PageSize       int
}

type PostRepository interface {
	Get(ctx context.Context, id int64) (*entity.Post, error)
	List(ctx context.Context, f PostListFilter) ([]entity.Post, int64, error)
	Create(ctx context.Context, p *entity.Post) error
	Update(ctx context.Context, p *entity.Post) error
	IncrementViewCount(ctx context.Context, id int64) (int, error)
	CountVisible(ctx context.Context, boardIDs []int64) (int64, error)
}

type CommentRepository interface {
	Get(ctx context.Context, id int64) (*entity.Comment, error)
	// ListForPost returns comments in creation order; deleted rows are
	// excluded unless includeDeleted is set.
	ListForPost(ctx context.Context, postID int64, includeDeleted bool) ([]entity.Comment, error)
	CountForPosts(ctx context.Context, postIDs []int64) (map[int64]int, error)
	Create(ctx context.Context, c *entity.Comment) error
	Update(ctx context.Context, c *entity.Comment) error
}

type LikeRepository interface {
	Find(ctx context.Context, postID, userID int64) (*entity.PostLike, error)
	Count(ctx context.Context, postID int64) (int, error)
	CountForPosts(ctx context.Context, postIDs []int64) (map[int64]int, error)
	LikedPostIDs(ctx context.Context, postIDs []int64, userID int64) (map[int64]bool, error)
	Create(ctx context.Context, l *entity.PostLike) error
	Delete(ctx context.Context, id int64) error
}

type AttachmentRepository interface {
	Get(ctx context.Context, id int64) (*entity.Attachment, error)
	ListForPost(ctx context.Context, postID int64) ([]entity.Attachment, error)
	Create(ctx context.Context, a *entity.Attachment) error
}

type RefreshTokenRepository interface {
	GetByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)
	Create(ctx context.Context, t *entity.RefreshToken) error
	Revoke(ctx context.Context, id int64) error
}
