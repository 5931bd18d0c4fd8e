package services

import (
	"context"
	"errors"
	"testing"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type mockPostStore struct {
	mock.Mock
	store.PostStore
}

func (m *mockPostStore) UpdateAuthorSnapshot(ctx context.Context, accountID uint, snapshot models.AuthorSnapshot) (int64, error) {
	args := m.Called(ctx, accountID, snapshot)
	return args.Get(0).(int64), args.Error(1)
}

type mockInteractionStore struct {
	mock.Mock
	store.InteractionStore
}

func (m *mockInteractionStore) DeleteAllByPosts(ctx context.Context, postIDs []uint) (int64, error) {
	args := m.Called(ctx, postIDs)
	return args.Get(0).(int64), args.Error(1)
}

// faultyTransactor hands fn a set whose stores were swapped by wrap.
type faultyTransactor struct {
	inner store.Transactor
	wrap  func(tx store.Set) store.Set
}

func (v faultyTransactor) Transaction(ctx context.Context, fn func(tx store.Set) error) error {
	return v.inner.Transaction(ctx, func(tx store.Set) error {
		return fn(v.wrap(tx))
	})
}

func listAll(t *testing.T, svc *Services) []models.Post {
	t.Helper()
	posts, err := svc.Posts.ListPost(context.Background(), PostQuery{Take: MaxPostTake})
	require.NoError(t, err)
	return posts
}

func TestUpdateProfilePropagatesSnapshot(t *testing.T) {
	backends(t, func(t *testing.T, set store.Set) {
		ctx := context.Background()
		svc := newTestServices(set)
		alice := mustRegister(t, svc, "alice")
		bob := mustRegister(t, svc, "bob")
		for _, content := range []string{"one", "two", "three"} {
			mustPost(t, svc, alice.ID, content)
		}
		mustPost(t, svc, bob.ID, "untouched")

		account, err := svc.Coordinator.UpdateProfile(ctx, alice.ID, ProfileUpdate{
			Name:   ptr("alicia"),
			Avatar: ptr("new.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alicia", account.Name)

		posts := listAll(t, svc)
		require.Len(t, posts, 4)
		for _, post := range posts {
			if post.AccountID == alice.ID {
				assert.Equal(t, models.AuthorSnapshot{Name: "alicia", Avatar: "new.png"}, post.Snapshot())
			} else {
				assert.Equal(t, "bob", post.AuthorName)
			}
		}
	})
}

func TestUpdateProfileFailuresLeavePostsAlone(t *testing.T) {
	backends(t, func(t *testing.T, set store.Set) {
		ctx := context.Background()
		svc := newTestServices(set)
		alice := mustRegister(t, svc, "alice")
		mustRegister(t, svc, "bob")
		mustPost(t, svc, alice.ID, "hello")

		_, err := svc.Coordinator.UpdateProfile(ctx, alice.ID, ProfileUpdate{Name: ptr("bob")})
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
		_, err = svc.Coordinator.UpdateProfile(ctx, 404, ProfileUpdate{Name: ptr("ghost")})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = svc.Coordinator.UpdateProfile(ctx, alice.ID, ProfileUpdate{Name: ptr(" ")})
		assert.ErrorIs(t, err, ErrValidation)

		posts := listAll(t, svc)
		require.Len(t, posts, 1)
		assert.Equal(t, "alice", posts[0].AuthorName)
	})
}

func TestUpdateProfileReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	healthy := memstore.NewSplit()
	seed := newTestServices(healthy)
	alice := mustRegister(t, seed, "alice")
	for _, content := range []string{"one", "two", "three"} {
		mustPost(t, seed, alice.ID, content)
	}

	posts := &mockPostStore{PostStore: healthy.Posts}
	posts.On("UpdateAuthorSnapshot", mock.Anything, alice.ID, mock.Anything).Return(int64(0), errBoom)
	broken := healthy
	broken.Posts = posts

	_, err := newTestServices(broken).Coordinator.UpdateProfile(ctx, alice.ID, ProfileUpdate{Name: ptr("alicia")})
	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "propagate author snapshot", partial.Step)
	assert.Equal(t, []string{"update account"}, partial.Completed)
	assert.ErrorIs(t, err, errBoom)
	posts.AssertExpectations(t)

	account, err := healthy.Accounts.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", account.Name)

	report, err := seed.Coordinator.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.StaleSnapshots)
	for _, post := range listAll(t, seed) {
		assert.Equal(t, "alicia", post.AuthorName)
	}
}

func TestUpdateProfileRollsBackInSharedBackend(t *testing.T) {
	ctx := context.Background()
	set := memstore.New()
	seed := newTestServices(set)
	alice := mustRegister(t, seed, "alice")
	mustPost(t, seed, alice.ID, "hello")

	posts := &mockPostStore{}
	posts.On("UpdateAuthorSnapshot", mock.Anything, alice.ID, mock.Anything).Return(int64(0), errBoom)
	broken := set
	broken.Atomic = faultyTransactor{inner: set.Atomic, wrap: func(tx store.Set) store.Set {
		posts.PostStore = tx.Posts
		tx.Posts = posts
		return tx
	}}

	_, err := newTestServices(broken).Coordinator.UpdateProfile(ctx, alice.ID, ProfileUpdate{Name: ptr("alicia")})
	require.ErrorIs(t, err, errBoom)
	var partial *PartialFailureError
	assert.False(t, errors.As(err, &partial))

	account, err := set.Accounts.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Name)
}

func TestDeleteAccountCascades(t *testing.T) {
	backends(t, func(t *testing.T, set store.Set) {
		ctx := context.Background()
		svc := newTestServices(set)
		alice := mustRegister(t, svc, "alice")
		bob := mustRegister(t, svc, "bob")
		first := mustPost(t, svc, alice.ID, "first")
		second := mustPost(t, svc, alice.ID, "second")
		kept := mustPost(t, svc, bob.ID, "kept")

		for _, post := range []models.Post{first, second} {
			_, _, err := svc.Interactions.ReactPost(ctx, ReactionInput{PostID: post.ID, AccountID: bob.ID, Symbol: "like"})
			require.NoError(t, err)
			_, err = svc.Interactions.NewComment(ctx, post.ID, bob.ID, "nice")
			require.NoError(t, err)
		}
		_, _, err := svc.Interactions.ReactPost(ctx, ReactionInput{PostID: kept.ID, AccountID: alice.ID, Symbol: "like"})
		require.NoError(t, err)
		_, err = svc.Interactions.NewComment(ctx, kept.ID, alice.ID, "hey")
		require.NoError(t, err)
		_, err = svc.Interactions.NewComment(ctx, kept.ID, bob.ID, "mine")
		require.NoError(t, err)

		require.NoError(t, svc.Coordinator.DeleteAccount(ctx, alice.ID))

		_, err = svc.Accounts.Get(ctx, alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		posts := listAll(t, svc)
		require.Len(t, posts, 1)
		assert.Equal(t, kept.ID, posts[0].ID)

		referenced, err := set.Interactions.ListPostIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uint{kept.ID}, referenced)

		counts, err := svc.Interactions.CountInteractions(ctx, kept.ID)
		require.NoError(t, err)
		assert.Equal(t, InteractionCounts{Likes: 0, Comments: 1}, counts)

		assert.ErrorIs(t, svc.Coordinator.DeleteAccount(ctx, alice.ID), ErrNotFound)
	})
}

func TestDeleteAccountReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	healthy := memstore.NewSplit()
	seed := newTestServices(healthy)
	alice := mustRegister(t, seed, "alice")
	bob := mustRegister(t, seed, "bob")
	post := mustPost(t, seed, alice.ID, "hello")
	_, err := seed.Interactions.NewComment(ctx, post.ID, bob.ID, "hi")
	require.NoError(t, err)

	interactions := &mockInteractionStore{InteractionStore: healthy.Interactions}
	interactions.On("DeleteAllByPosts", mock.Anything, []uint{post.ID}).Return(int64(0), errBoom)
	broken := healthy
	broken.Interactions = interactions

	err = newTestServices(broken).Coordinator.DeleteAccount(ctx, alice.ID)
	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "delete post interactions", partial.Step)
	assert.Equal(t, []string{"delete posts"}, partial.Completed)
	interactions.AssertExpectations(t)

	report, err := seed.Coordinator.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.OrphanInteractions)

	referenced, err := healthy.Interactions.ListPostIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, referenced)
}

func TestDeleteAccountStopsBeforeWritingWhenLookupFails(t *testing.T) {
	svc := newTestServices(memstore.NewSplit())
	err := svc.Coordinator.DeleteAccount(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	var partial *PartialFailureError
	assert.False(t, errors.As(err, &partial))
}

func TestPostOwnershipIsEnforced(t *testing.T) {
	backends(t, func(t *testing.T, set store.Set) {
		ctx := context.Background()
		svc := newTestServices(set)
		alice := mustRegister(t, svc, "alice")
		bob := mustRegister(t, svc, "bob")
		post := mustPost(t, svc, alice.ID, "hello")

		_, err := svc.Posts.EditPost(ctx, post.ID, bob.ID, "hijacked")
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, svc.Coordinator.DeletePost(ctx, post.ID, bob.ID), ErrForbidden)

		got, err := svc.Posts.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Content)
		assert.Nil(t, got.EditedAt)

		_, err = svc.Posts.EditPost(ctx, 404, alice.ID, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, svc.Coordinator.DeletePost(ctx, 404, alice.ID), ErrNotFound)
	})
}

func TestDeletePostCascades(t *testing.T) {
	backends(t, func(t *testing.T, set store.Set) {
		ctx := context.Background()
		svc := newTestServices(set)
		alice := mustRegister(t, svc, "alice")
		bob := mustRegister(t, svc, "bob")
		post := mustPost(t, svc, alice.ID, "hello")
		other := mustPost(t, svc, alice.ID, "other")

		_, _, err := svc.Interactions.ReactPost(ctx, ReactionInput{PostID: post.ID, AccountID: bob.ID, Symbol: "like"})
		require.NoError(t, err)
		_, err = svc.Interactions.NewComment(ctx, post.ID, bob.ID, "nice")
		require.NoError(t, err)
		_, err = svc.Interactions.NewComment(ctx, other.ID, bob.ID, "also nice")
		require.NoError(t, err)

		require.NoError(t, svc.Coordinator.DeletePost(ctx, post.ID, alice.ID))

		_, err = svc.Posts.GetPost(ctx, post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		counts, err := svc.Interactions.CountInteractions(ctx, post.ID)
		require.NoError(t, err)
		assert.Zero(t, counts)
		counts, err = svc.Interactions.CountInteractions(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Comments)
	})
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	set := memstore.NewSplit()
	svc := newTestServices(set)
	alice := mustRegister(t, svc, "alice")

	stale := models.Post{Content: "stale", AccountID: alice.ID, AuthorName: "old"}
	require.NoError(t, set.Posts.Create(ctx, &stale))
	orphan := models.Post{Content: "orphan", AccountID: 999, AuthorName: "ghost"}
	require.NoError(t, set.Posts.Create(ctx, &orphan))
	require.NoError(t, set.Interactions.AddComment(ctx, &models.Comment{Content: "x", PostID: orphan.ID, AccountID: alice.ID}))
	require.NoError(t, set.Interactions.AddReaction(ctx, &models.Reaction{Symbol: "like", PostID: 555, AccountID: alice.ID}))

	report, err := svc.Coordinator.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{StaleSnapshots: 1, OrphanPosts: 1, OrphanInteractions: 2}, report)

	posts := listAll(t, svc)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].AuthorName)

	report, err = svc.Coordinator.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, report)
}
