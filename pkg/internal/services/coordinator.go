package services

import (
	"context"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/rs/zerolog/log"
)

// Coordinator runs the operations that touch more than one collection: it
// copies author snapshots onto posts and cascades deletions down to posts and
// interactions.
type Coordinator struct {
	set      store.Set
	accounts *AccountService
	posts    *PostService
}

// UpdateProfile writes the account first and then the author snapshot of
// every post. The account stays authoritative when the second step fails.
func (v *Coordinator) UpdateProfile(ctx context.Context, accountID uint, update ProfileUpdate) (models.Account, error) {
	var account models.Account
	err := v.run(ctx, "update profile", func(set store.Set) saga {
		accounts := v.accounts.bind(set.Accounts)
		return saga{
			{name: "update account", run: func(ctx context.Context) (err error) {
				account, err = accounts.UpdateProfile(ctx, accountID, update)
				return err
			}},
			{name: "propagate author snapshot", run: func(ctx context.Context) error {
				count, err := set.Posts.UpdateAuthorSnapshot(ctx, accountID, account.Snapshot())
				if err == nil {
					log.Debug().Uint("account", accountID).Int64("posts", count).Msg("Propagated author snapshot...")
				}
				return err
			}},
		}
	})
	v.accounts.invalidate(ctx, accountID)
	return account, err
}

// DeleteAccount removes the account together with its posts, the
// interactions on those posts and the interactions it made elsewhere.
func (v *Coordinator) DeleteAccount(ctx context.Context, accountID uint) error {
	defer v.accounts.invalidate(ctx, accountID)
	return v.run(ctx, "delete account", func(set store.Set) saga {
		accounts := v.accounts.bind(set.Accounts)
		var postIDs []uint
		return saga{
			{name: "load account", readOnly: true, run: func(ctx context.Context) error {
				_, err := set.Accounts.Get(ctx, accountID)
				return err
			}},
			{name: "collect posts", readOnly: true, run: func(ctx context.Context) (err error) {
				postIDs, err = set.Posts.ListIDsByAuthor(ctx, accountID)
				return err
			}},
			{name: "delete posts", run: func(ctx context.Context) error {
				count, err := set.Posts.DeleteAllByAuthor(ctx, accountID)
				if err == nil {
					log.Debug().Uint("account", accountID).Int64("posts", count).Msg("Deleted posts of account...")
				}
				return err
			}},
			{name: "delete post interactions", run: func(ctx context.Context) error {
				_, err := set.Interactions.DeleteAllByPosts(ctx, postIDs)
				return err
			}},
			{name: "delete account interactions", run: func(ctx context.Context) error {
				_, err := set.Interactions.DeleteAllByAccount(ctx, accountID)
				return err
			}},
			{name: "delete account", run: func(ctx context.Context) error {
				if err := accounts.Delete(ctx, accountID); err != nil {
					return err
				}
				log.Info().Uint("account", accountID).Int("posts", len(postIDs)).Msg("Deleted account...")
				return nil
			}},
		}
	})
}

// DeletePost removes a post owned by the requester and its interactions.
func (v *Coordinator) DeletePost(ctx context.Context, postID, requesterID uint) error {
	return v.run(ctx, "delete post", func(set store.Set) saga {
		posts := v.posts.bind(set)
		return saga{
			{name: "authorize", readOnly: true, run: func(ctx context.Context) error {
				_, err := posts.Authorize(ctx, postID, requesterID)
				return err
			}},
			{name: "delete post", run: func(ctx context.Context) error {
				return set.Posts.Delete(ctx, postID)
			}},
			{name: "delete interactions", run: func(ctx context.Context) error {
				count, err := set.Interactions.DeleteAllByPost(ctx, postID)
				if err == nil {
					log.Debug().Uint("post", postID).Int64("interactions", count).Msg("Deleted post...")
				}
				return err
			}},
		}
	})
}
