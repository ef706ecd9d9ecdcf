package repository

import "context"

// Set bundles every repository bound to one unit of work. Services receive a
// Set either over the shared pool or, inside TxRunner.InTx, over a single
// transaction.
type Set struct {
	Roles           RoleRepository
	Users           UserRepository
	Boards          BoardRepository
	Menus           MenuRepository
	MenuPermissions MenuPermissionRepository
	Posts           PostRepository
	Comments        CommentRepository
	Likes           LikeRepository
	Attachments     AttachmentRepository
	RefreshTokens   RefreshTokenRepository
}

// TxRunner executes fn with a Set bound to one transaction. An error from fn
// rolls everything back; partial application must not occur.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repos Set) error) error
}
