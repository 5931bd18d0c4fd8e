// Package storetest checks that a store.Set backend behaves like the others.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Opener returns an empty backend for one test.
type Opener func(t *testing.T) store.Set

func Run(t *testing.T, open Opener) {
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, open(t)) })
	t.Run("Posts", func(t *testing.T) { testPosts(t, open(t)) })
	t.Run("AuthorSnapshot", func(t *testing.T) { testAuthorSnapshot(t, open(t)) })
	t.Run("Reactions", func(t *testing.T) { testReactions(t, open(t)) })
	t.Run("Comments", func(t *testing.T) { testComments(t, open(t)) })
	t.Run("DeleteInteractions", func(t *testing.T) { testDeleteInteractions(t, open(t)) })
	t.Run("Transaction", func(t *testing.T) { testTransaction(t, open(t)) })
}

func ptr[T any](v T) *T {
	return &v
}

func contents(posts []models.Post) []string {
	return lo.Map(posts, func(item models.Post, _ int) string {
		return item.Content
	})
}

func newPost(t *testing.T, set store.Set, author uint, content string) models.Post {
	t.Helper()
	post := models.Post{Content: content, AccountID: author, AuthorName: "author"}
	require.NoError(t, set.Posts.Create(context.Background(), &post))
	require.NotZero(t, post.ID)
	return post
}

func testAccounts(t *testing.T, set store.Set) {
	ctx := context.Background()

	alice := models.Account{Name: "alice", Password: "digest", Avatar: "a.png"}
	require.NoError(t, set.Accounts.Create(ctx, &alice))
	assert.NotZero(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	duplicate := models.Account{Name: "alice"}
	assert.ErrorIs(t, set.Accounts.Create(ctx, &duplicate), store.ErrConflict)

	bob := models.Account{Name: "bob"}
	require.NoError(t, set.Accounts.Create(ctx, &bob))

	got, err := set.Accounts.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "digest", got.Password)

	_, err = set.Accounts.Get(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = set.Accounts.GetByName(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	updated, err := set.Accounts.Update(ctx, alice.ID, store.AccountPatch{Description: ptr("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Description)
	assert.Equal(t, "a.png", updated.Avatar)
	assert.Equal(t, "alice", updated.Name)

	_, err = set.Accounts.Update(ctx, bob.ID, store.AccountPatch{Name: ptr("alice")})
	assert.ErrorIs(t, err, store.ErrConflict)
	_, err = set.Accounts.Update(ctx, 9999, store.AccountPatch{Name: ptr("ghost")})
	assert.ErrorIs(t, err, store.ErrNotFound)

	renamed, err := set.Accounts.Update(ctx, bob.ID, store.AccountPatch{Name: ptr("robert")})
	require.NoError(t, err)
	assert.Equal(t, "robert", renamed.Name)

	accounts, err := set.Accounts.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{alice.ID, bob.ID}, lo.Map(accounts, func(item models.Account, _ int) uint {
		return item.ID
	}))

	require.NoError(t, set.Accounts.Delete(ctx, alice.ID))
	assert.ErrorIs(t, set.Accounts.Delete(ctx, alice.ID), store.ErrNotFound)
	_, err = set.Accounts.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	again := models.Account{Name: "alice"}
	assert.NoError(t, set.Accounts.Create(ctx, &again))
}

func testPosts(t *testing.T, set store.Set) {
	ctx := context.Background()

	first := newPost(t, set, 1, "first")
	newPost(t, set, 2, "second")
	third := newPost(t, set, 1, "third")

	posts, err := set.Posts.List(ctx, store.PostQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, contents(posts))

	posts, err = set.Posts.List(ctx, store.PostQuery{Take: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, contents(posts))

	posts, err = set.Posts.List(ctx, store.PostQuery{AccountID: ptr(uint(1))})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "first"}, contents(posts))

	posts, err = set.Posts.List(ctx, store.PostQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, posts)

	editedAt := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	edited, err := set.Posts.UpdateContent(ctx, first.ID, "first!", "en", editedAt)
	require.NoError(t, err)
	assert.Equal(t, "first!", edited.Content)
	assert.Equal(t, "en", edited.Language)
	require.NotNil(t, edited.EditedAt)
	assert.True(t, editedAt.Equal(*edited.EditedAt))

	_, err = set.Posts.UpdateContent(ctx, 9999, "nothing", "", editedAt)
	assert.ErrorIs(t, err, store.ErrNotFound)

	ids, err := set.Posts.ListIDsByAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID, third.ID}, ids)

	authors, err := set.Posts.ListAuthorIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, authors)

	present, err := set.Posts.Exists(ctx, []uint{first.ID, 9999, third.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{first.ID, third.ID}, present)
	present, err = set.Posts.Exists(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, present)

	require.NoError(t, set.Posts.Delete(ctx, third.ID))
	assert.ErrorIs(t, set.Posts.Delete(ctx, third.ID), store.ErrNotFound)
	_, err = set.Posts.Get(ctx, third.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	count, err := set.Posts.DeleteAllByAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = set.Posts.DeleteAllByAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	posts, err = set.Posts.List(ctx, store.PostQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, contents(posts))
}

func testAuthorSnapshot(t *testing.T, set store.Set) {
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		newPost(t, set, 1, content)
	}
	other := newPost(t, set, 2, "other")

	snapshot := models.AuthorSnapshot{Name: "alicia", Avatar: "new.png"}
	count, err := set.Posts.UpdateAuthorSnapshot(ctx, 1, snapshot)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = set.Posts.UpdateAuthorSnapshot(ctx, 1, snapshot)
	require.NoError(t, err)
	assert.Zero(t, count)

	posts, err := set.Posts.List(ctx, store.PostQuery{AccountID: ptr(uint(1))})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, post := range posts {
		assert.Equal(t, snapshot, post.Snapshot())
	}

	got, err := set.Posts.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", got.AuthorName)
}

func testReactions(t *testing.T, set store.Set) {
	ctx := context.Background()

	like := models.Reaction{Symbol: "like", Attitude: models.AttitudePositive, PostID: 1, AccountID: 1}
	require.NoError(t, set.Interactions.AddReaction(ctx, &like))
	assert.NotZero(t, like.ID)

	duplicate := models.Reaction{Symbol: "like", PostID: 1, AccountID: 1}
	assert.ErrorIs(t, set.Interactions.AddReaction(ctx, &duplicate), store.ErrConflict)

	for _, reaction := range []models.Reaction{
		{Symbol: "clap", PostID: 1, AccountID: 1},
		{Symbol: "like", PostID: 1, AccountID: 2},
		{Symbol: "like", PostID: 2, AccountID: 1},
	} {
		require.NoError(t, set.Interactions.AddReaction(ctx, &reaction))
	}

	found, err := set.Interactions.FindReaction(ctx, 1, 1, "like")
	require.NoError(t, err)
	assert.Equal(t, like.ID, found.ID)
	assert.Equal(t, models.AttitudePositive, found.Attitude)
	_, err = set.Interactions.FindReaction(ctx, 1, 3, "like")
	assert.ErrorIs(t, err, store.ErrNotFound)

	count, err := set.Interactions.CountReactions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func testComments(t *testing.T, set store.Set) {
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c"} {
		comment := models.Comment{Content: content, PostID: 1, AccountID: 1}
		require.NoError(t, set.Interactions.AddComment(ctx, &comment))
	}
	require.NoError(t, set.Interactions.AddComment(ctx, &models.Comment{Content: "elsewhere", PostID: 2, AccountID: 1}))
	require.NoError(t, set.Interactions.AddReaction(ctx, &models.Reaction{Symbol: "like", PostID: 2, AccountID: 1}))

	comments, err := set.Interactions.ListComments(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lo.Map(comments, func(item models.Comment, _ int) string {
		return item.Content
	}))

	comments, err = set.Interactions.ListComments(ctx, 1, 2, 1)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "b", comments[0].Content)

	count, err := set.Interactions.CountComments(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	metrics, err := set.Interactions.Metrics(ctx, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint]models.PostMetric{
		1: {CommentCount: 3},
		2: {ReactionCount: 1, CommentCount: 1},
		3: {},
	}, metrics)

	ids, err := set.Interactions.ListPostIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids)
}

func testDeleteInteractions(t *testing.T, set store.Set) {
	ctx := context.Background()

	seed := func(postID, accountID uint, symbol string) {
		require.NoError(t, set.Interactions.AddReaction(ctx, &models.Reaction{Symbol: symbol, PostID: postID, AccountID: accountID}))
		require.NoError(t, set.Interactions.AddComment(ctx, &models.Comment{Content: symbol, PostID: postID, AccountID: accountID}))
	}
	seed(1, 1, "a")
	seed(1, 2, "b")
	seed(2, 1, "c")
	seed(3, 2, "d")
	seed(4, 3, "e")

	count, err := set.Interactions.DeleteAllByPost(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	count, err = set.Interactions.DeleteAllByPost(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = set.Interactions.DeleteAllByPosts(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = set.Interactions.DeleteAllByAccount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = set.Interactions.DeleteAllByPosts(ctx, []uint{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	ids, err := set.Interactions.ListPostIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func testTransaction(t *testing.T, set store.Set) {
	if set.Atomic == nil {
		t.Skip("backend has no shared transaction")
	}
	ctx := context.Background()
	errRollback := errors.New("rollback")

	err := set.Atomic.Transaction(ctx, func(tx store.Set) error {
		account := models.Account{Name: "alice"}
		if err := tx.Accounts.Create(ctx, &account); err != nil {
			return err
		}
		newPost(t, tx, account.ID, "inside")
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	accounts, err := set.Accounts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	posts, err := set.Posts.List(ctx, store.PostQuery{})
	require.NoError(t, err)
	assert.Empty(t, posts)

	err = set.Atomic.Transaction(ctx, func(tx store.Set) error {
		account := models.Account{Name: "alice"}
		if err := tx.Accounts.Create(ctx, &account); err != nil {
			return err
		}
		newPost(t, tx, account.ID, "inside")
		return nil
	})
	require.NoError(t, err)

	posts, err = set.Posts.List(ctx, store.PostQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"inside"}, contents(posts))
}
