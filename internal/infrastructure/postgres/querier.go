package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corpboard/corpboard/internal/domain/repository"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so every
// repository can run either on the pool or inside one transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// NewSet builds the full repository set over db.
func NewSet(db Querier) repository.Set {
	return repository.Set{
		Roles:           NewRoleRepository(db),
		Users:           NewUserRepository(db),
		Boards:          NewBoardRepository(db),
		Menus:           NewMenuRepository(db),
		MenuPermissions: NewMenuPermissionRepository(db),
		Posts:           NewPostRepository(db),
		Comments:        NewCommentRepository(db),
		Likes:           NewLikeRepository(db),
		Attachments:     NewAttachmentRepository(db),
		RefreshTokens:   NewRefreshTokenRepository(db),
	}
}

// TxRunner runs a repository set inside one pgx transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(repos repository.Set) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSet(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.TxRunner = (*TxRunner)(nil)

// itoa keeps dynamically numbered placeholders readable in query builders.
func itoa(n int) string { return strconv.Itoa(n) }
