package services

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
)

type InteractionService struct {
	posts        store.PostStore
	interactions store.InteractionStore
}

type ReactionInput struct {
	PostID    uint                    `validate:"required"`
	AccountID uint                    `validate:"required"`
	Symbol    string                  `validate:"required,max=64"`
	Attitude  models.ReactionAttitude `validate:"max=2"`
}

// ReactPost adds the reaction once. Reacting again with the same symbol
// returns the existing reaction and false.
func (v *InteractionService) ReactPost(ctx context.Context, data ReactionInput) (models.Reaction, bool, error) {
	if err := validateStruct(data); err != nil {
		return models.Reaction{}, false, err
	}
	if _, err := v.posts.Get(ctx, data.PostID); err != nil {
		return models.Reaction{}, false, err
	}

	reaction := models.Reaction{
		Symbol:    data.Symbol,
		Attitude:  data.Attitude,
		PostID:    data.PostID,
		AccountID: data.AccountID,
	}
	err := v.interactions.AddReaction(ctx, &reaction)
	if errors.Is(err, store.ErrConflict) {
		existing, err := v.interactions.FindReaction(ctx, data.PostID, data.AccountID, data.Symbol)
		return existing, false, err
	} else if err != nil {
		return reaction, false, err
	}
	return reaction, true, nil
}

func (v *InteractionService) NewComment(ctx context.Context, postID, accountID uint, content string) (models.Comment, error) {
	content, err := requireText("content", content)
	if err != nil {
		return models.Comment{}, err
	}
	if postID == 0 {
		return models.Comment{}, &ValidationError{Field: "post_id", Reason: "is required"}
	}
	if _, err := v.posts.Get(ctx, postID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		Content:   content,
		PostID:    postID,
		AccountID: accountID,
	}
	if err := v.interactions.AddComment(ctx, &comment); err != nil {
		return comment, err
	}
	return comment, nil
}

// ListComments returns the comments of a post oldest first.
func (v *InteractionService) ListComments(ctx context.Context, postID uint, take, offset int) ([]models.Comment, error) {
	if take <= 0 {
		take = DefaultPostTake
	}
	comments, err := v.interactions.ListComments(ctx, postID, min(take, MaxPostTake), max(offset, 0))
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

type InteractionCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

func (v *InteractionService) CountInteractions(ctx context.Context, postID uint) (InteractionCounts, error) {
	var out InteractionCounts
	var err error
	if out.Likes, err = v.interactions.CountReactions(ctx, postID); err != nil {
		return out, err
	}
	if out.Comments, err = v.interactions.CountComments(ctx, postID); err != nil {
		return out, err
	}
	return out, nil
}
