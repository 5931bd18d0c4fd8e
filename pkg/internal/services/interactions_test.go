package services

import (
	"context"
	"testing"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/memstore"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactPostIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(memstore.New())
	alice := mustRegister(t, svc, "alice")
	post := mustPost(t, svc, alice.ID, "hello")

	input := ReactionInput{PostID: post.ID, AccountID: alice.ID, Symbol: "like", Attitude: models.AttitudePositive}
	first, created, err := svc.Interactions.ReactPost(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.Interactions.ReactPost(ctx, input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, created, err = svc.Interactions.ReactPost(ctx, ReactionInput{PostID: post.ID, AccountID: alice.ID, Symbol: "clap"})
	require.NoError(t, err)
	assert.True(t, created)

	counts, err := svc.Interactions.CountInteractions(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, InteractionCounts{Likes: 2}, counts)
}

func TestReactPostValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(memstore.New())
	alice := mustRegister(t, svc, "alice")
	post := mustPost(t, svc, alice.ID, "hello")

	for _, input := range []ReactionInput{
		{AccountID: alice.ID, Symbol: "like"},
		{PostID: post.ID, AccountID: alice.ID},
		{PostID: post.ID, Symbol: "like"},
		{PostID: post.ID, AccountID: alice.ID, Symbol: "like", Attitude: 7},
	} {
		_, _, err := svc.Interactions.ReactPost(ctx, input)
		assert.ErrorIs(t, err, ErrValidation, "%+v", input)
	}

	_, _, err := svc.Interactions.ReactPost(ctx, ReactionInput{PostID: 404, AccountID: alice.ID, Symbol: "like"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(memstore.New())
	alice := mustRegister(t, svc, "alice")
	post := mustPost(t, svc, alice.ID, "hello")

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.Interactions.NewComment(ctx, post.ID, alice.ID, content)
		require.NoError(t, err)
	}
	_, err := svc.Interactions.NewComment(ctx, post.ID, alice.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Interactions.NewComment(ctx, 404, alice.ID, "lost")
	assert.ErrorIs(t, err, ErrNotFound)

	comments, err := svc.Interactions.ListComments(ctx, post.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, lo.Map(comments, func(item models.Comment, _ int) string {
		return item.Content
	}))

	comments, err = svc.Interactions.ListComments(ctx, post.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "second", comments[0].Content)

	comments, err = svc.Interactions.ListComments(ctx, 404, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	counts, err := svc.Interactions.CountInteractions(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, InteractionCounts{Comments: 3}, counts)
}
