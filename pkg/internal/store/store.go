// Package store describes the three collections the service persists.
//
// Accounts, posts and interactions are owned independently and reference each
// other by id only. Each collection may live in a different backend, so
// nothing here enforces referential integrity; keeping copies and references
// consistent is the job of services.Coordinator.
package store

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
)

type AccountPatch struct {
	Name        *string
	Password    *string
	Description *string
	Avatar      *string
}

type AccountStore interface {
	// Create assigns the id and timestamps. Returns ErrConflict when the name is taken.
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id uint) (models.Account, error)
	GetByName(ctx context.Context, name string) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, id uint, patch AccountPatch) (models.Account, error)
	Delete(ctx context.Context, id uint) error
}

type PostQuery struct {
	AccountID *uint
	Take      int
	Offset    int
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id uint) (models.Post, error)
	// List returns posts newest first, ties broken by the higher id.
	List(ctx context.Context, query PostQuery) ([]models.Post, error)
	UpdateContent(ctx context.Context, id uint, content, language string, editedAt time.Time) (models.Post, error)
	Delete(ctx context.Context, id uint) error

	DeleteAllByAuthor(ctx context.Context, accountID uint) (int64, error)
	// UpdateAuthorSnapshot rewrites the author copy on every post of the account
	// and returns how many posts were actually stale.
	UpdateAuthorSnapshot(ctx context.Context, accountID uint, snapshot models.AuthorSnapshot) (int64, error)

	ListIDsByAuthor(ctx context.Context, accountID uint) ([]uint, error)
	ListAuthorIDs(ctx context.Context) ([]uint, error)
	// Exists returns the subset of ids that are still present.
	Exists(ctx context.Context, ids []uint) ([]uint, error)
}

type InteractionStore interface {
	// AddReaction returns ErrConflict when the account already reacted to the
	// post with the same symbol.
	AddReaction(ctx context.Context, reaction *models.Reaction) error
	FindReaction(ctx context.Context, postID, accountID uint, symbol string) (models.Reaction, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID uint, take, offset int) ([]models.Comment, error)

	CountReactions(ctx context.Context, postID uint) (int64, error)
	CountComments(ctx context.Context, postID uint) (int64, error)
	Metrics(ctx context.Context, postIDs []uint) (map[uint]models.PostMetric, error)

	DeleteAllByPost(ctx context.Context, postID uint) (int64, error)
	DeleteAllByPosts(ctx context.Context, postIDs []uint) (int64, error)
	DeleteAllByAccount(ctx context.Context, accountID uint) (int64, error)
	ListPostIDs(ctx context.Context) ([]uint, error)
}

// Transactor runs fn against stores bound to one backend transaction.
// A non-nil error returned by fn rolls everything back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx Set) error) error
}

type Set struct {
	Accounts     AccountStore
	Posts        PostStore
	Interactions InteractionStore

	// Atomic is only set when all three collections share one backend.
	Atomic Transactor
}
