package services

import (
	"context"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/memstore"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contents(posts []models.Post) []string {
	return lo.Map(posts, func(item models.Post, _ int) string {
		return item.Content
	})
}

func TestNewPost(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(memstore.New())
	alice := mustRegister(t, svc, "alice")

	post, err := svc.Posts.NewPost(ctx, alice.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, "en", post.Language)
	assert.Equal(t, alice.ID, post.AccountID)
	assert.Equal(t, "alice", post.AuthorName)

	_, err = svc.Posts.NewPost(ctx, alice.ID, " \n ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Posts.NewPost(ctx, 404, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(memstore.New())
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")

	for i, content := range []string{"a", "b", "c", "d"} {
		author := lo.Ternary(i%2 == 0, alice.ID, bob.ID)
		mustPost(t, svc, author, content)
	}

	posts, err := svc.Posts.ListPost(ctx, PostQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, contents(posts))

	posts, err = svc.Posts.ListPost(ctx, PostQuery{Take: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, contents(posts))

	posts, err = svc.Posts.ListPost(ctx, PostQuery{AuthorID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, contents(posts))

	posts, err = svc.Posts.ListPost(ctx, PostQuery{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestListPostAttachesMetric(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(memstore.New())
	alice := mustRegister(t, svc, "alice")
	post := mustPost(t, svc, alice.ID, "hello")

	_, _, err := svc.Interactions.ReactPost(ctx, ReactionInput{PostID: post.ID, AccountID: alice.ID, Symbol: "like"})
	require.NoError(t, err)
	_, err = svc.Interactions.NewComment(ctx, post.ID, alice.ID, "self reply")
	require.NoError(t, err)

	posts, err := svc.Posts.ListPost(ctx, PostQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), posts[0].Metric.ReactionCount)
	assert.Equal(t, int64(1), posts[0].Metric.CommentCount)
}

func TestEditPost(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(memstore.New())
	alice := mustRegister(t, svc, "alice")
	post := mustPost(t, svc, alice.ID, "hello")

	editedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.Posts.now = func() time.Time { return editedAt }

	updated, err := svc.Posts.EditPost(ctx, post.ID, alice.ID, "hello again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", updated.Content)
	require.NotNil(t, updated.EditedAt)
	assert.True(t, editedAt.Equal(*updated.EditedAt))

	_, err = svc.Posts.EditPost(ctx, post.ID, alice.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}
