package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Set {
		set, err := Open(filepath.Join(t.TempDir(), "store.json"))
		require.NoError(t, err)
		return set
	})
}

func TestReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	set, err := Open(path)
	require.NoError(t, err)

	alice := models.Account{Name: "alice", Password: "digest", Avatar: "a.png"}
	require.NoError(t, set.Accounts.Create(ctx, &alice))
	post := models.Post{Content: "hello", AccountID: alice.ID, AuthorName: "alice", AuthorAvatar: "a.png"}
	require.NoError(t, set.Posts.Create(ctx, &post))
	require.NoError(t, set.Interactions.AddReaction(ctx, &models.Reaction{Symbol: "like", PostID: post.ID, AccountID: alice.ID}))
	require.NoError(t, set.Interactions.AddComment(ctx, &models.Comment{Content: "hi", PostID: post.ID, AccountID: alice.ID}))

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Accounts.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "digest", got.Password)

	posts, err := reopened.Posts.List(ctx, store.PostQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.Snapshot(), posts[0].Snapshot())

	metrics, err := reopened.Interactions.Metrics(ctx, []uint{post.ID})
	require.NoError(t, err)
	assert.Equal(t, models.PostMetric{ReactionCount: 1, CommentCount: 1}, metrics[post.ID])

	bob := models.Account{Name: "bob"}
	require.NoError(t, reopened.Accounts.Create(ctx, &bob))
	assert.Greater(t, bob.ID, post.ID)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestOpenAcceptsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	set, err := Open(path)
	require.NoError(t, err)
	accounts, err := set.Accounts.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
