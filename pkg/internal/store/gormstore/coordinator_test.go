package gormstore

import (
	"context"
	"testing"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCoordinatorOnSqlite(t *testing.T) {
	for name, open := range map[string]func(t *testing.T) store.Set{
		"shared": func(t *testing.T) store.Set {
			db := openSqlite(t, "shared.db")
			return NewSet(db, db, db)
		},
		"split": func(t *testing.T) store.Set {
			return NewSet(openSqlite(t, "users.db"), openSqlite(t, "content.db"), openSqlite(t, "interactions.db"))
		},
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			set := open(t)
			svc := services.New(set, services.Options{Hasher: auth.NewBcryptHasher(bcrypt.MinCost)})

			alice, err := svc.Accounts.Register(ctx, services.Registration{Name: "alice", Password: "pw1"})
			require.NoError(t, err)
			bob, err := svc.Accounts.Register(ctx, services.Registration{Name: "bob", Password: "pw2"})
			require.NoError(t, err)

			post, err := svc.Posts.NewPost(ctx, alice.ID, "hello")
			require.NoError(t, err)
			kept, err := svc.Posts.NewPost(ctx, bob.ID, "kept")
			require.NoError(t, err)
			_, _, err = svc.Interactions.ReactPost(ctx, services.ReactionInput{PostID: post.ID, AccountID: bob.ID, Symbol: "like"})
			require.NoError(t, err)
			_, err = svc.Interactions.NewComment(ctx, kept.ID, alice.ID, "hi bob")
			require.NoError(t, err)

			avatar := "new.png"
			_, err = svc.Coordinator.UpdateProfile(ctx, alice.ID, services.ProfileUpdate{Avatar: &avatar})
			require.NoError(t, err)
			got, err := svc.Posts.GetPost(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, "new.png", got.AuthorAvatar)
			assert.Equal(t, int64(1), got.Metric.ReactionCount)

			require.NoError(t, svc.Coordinator.DeleteAccount(ctx, alice.ID))

			posts, err := svc.Posts.ListPost(ctx, services.PostQuery{})
			require.NoError(t, err)
			require.Len(t, posts, 1)
			assert.Equal(t, kept.ID, posts[0].ID)
			assert.Zero(t, posts[0].Metric)

			referenced, err := set.Interactions.ListPostIDs(ctx)
			require.NoError(t, err)
			assert.Empty(t, referenced)
		})
	}
}
