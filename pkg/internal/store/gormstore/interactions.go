package gormstore

import (
	"context"
	"slices"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type interactionStore struct {
	db *gorm.DB
}

func (v *interactionStore) AddReaction(ctx context.Context, reaction *models.Reaction) error {
	return translate(v.db.WithContext(ctx).Create(reaction).Error)
}

func (v *interactionStore) FindReaction(ctx context.Context, postID, accountID uint, symbol string) (models.Reaction, error) {
	var reaction models.Reaction
	err := v.db.WithContext(ctx).
		Where("post_id = ? AND account_id = ? AND symbol = ?", postID, accountID, symbol).
		First(&reaction).Error
	return reaction, translate(err)
}

func (v *interactionStore) AddComment(ctx context.Context, comment *models.Comment) error {
	return translate(v.db.WithContext(ctx).Create(comment).Error)
}

func (v *interactionStore) ListComments(ctx context.Context, postID uint, take, offset int) ([]models.Comment, error) {
	tx := v.db.WithContext(ctx).Where("post_id = ?", postID)
	if take > 0 {
		tx = tx.Limit(take)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	var comments []models.Comment
	err := tx.Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, translate(err)
}

func (v *interactionStore) count(ctx context.Context, model any, postID uint) (int64, error) {
	var count int64
	err := v.db.WithContext(ctx).Model(model).Where("post_id = ?", postID).Count(&count).Error
	return count, translate(err)
}

func (v *interactionStore) CountReactions(ctx context.Context, postID uint) (int64, error) {
	return v.count(ctx, &models.Reaction{}, postID)
}

func (v *interactionStore) CountComments(ctx context.Context, postID uint) (int64, error) {
	return v.count(ctx, &models.Comment{}, postID)
}

type postCount struct {
	PostID uint
	Count  int64
}

func (v *interactionStore) countByPost(ctx context.Context, model any, postIDs []uint) ([]postCount, error) {
	var out []postCount
	err := v.db.WithContext(ctx).
		Model(model).
		Select("post_id, COUNT(id) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&out).Error
	return out, translate(err)
}

func (v *interactionStore) Metrics(ctx context.Context, postIDs []uint) (map[uint]models.PostMetric, error) {
	out := lo.SliceToMap(postIDs, func(id uint) (uint, models.PostMetric) {
		return id, models.PostMetric{}
	})
	if len(postIDs) == 0 {
		return out, nil
	}

	reactions, err := v.countByPost(ctx, &models.Reaction{}, postIDs)
	if err != nil {
		return out, err
	}
	comments, err := v.countByPost(ctx, &models.Comment{}, postIDs)
	if err != nil {
		return out, err
	}

	for _, info := range reactions {
		metric := out[info.PostID]
		metric.ReactionCount = info.Count
		out[info.PostID] = metric
	}
	for _, info := range comments {
		metric := out[info.PostID]
		metric.CommentCount = info.Count
		out[info.PostID] = metric
	}
	return out, nil
}

// deleteWhere removes reactions and comments matching the condition together.
func (v *interactionStore) deleteWhere(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reactions := tx.Where(query, args...).Delete(&models.Reaction{})
		if reactions.Error != nil {
			return reactions.Error
		}
		comments := tx.Where(query, args...).Delete(&models.Comment{})
		if comments.Error != nil {
			return comments.Error
		}
		count = reactions.RowsAffected + comments.RowsAffected
		return nil
	})
	return count, translate(err)
}

func (v *interactionStore) DeleteAllByPost(ctx context.Context, postID uint) (int64, error) {
	return v.deleteWhere(ctx, "post_id = ?", postID)
}

func (v *interactionStore) DeleteAllByPosts(ctx context.Context, postIDs []uint) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	return v.deleteWhere(ctx, "post_id IN ?", postIDs)
}

func (v *interactionStore) DeleteAllByAccount(ctx context.Context, accountID uint) (int64, error) {
	return v.deleteWhere(ctx, "account_id = ?", accountID)
}

func (v *interactionStore) ListPostIDs(ctx context.Context) ([]uint, error) {
	var reacted, commented []uint
	if err := v.db.WithContext(ctx).Model(&models.Reaction{}).Distinct().Pluck("post_id", &reacted).Error; err != nil {
		return nil, translate(err)
	}
	if err := v.db.WithContext(ctx).Model(&models.Comment{}).Distinct().Pluck("post_id", &commented).Error; err != nil {
		return nil, translate(err)
	}
	out := lo.Uniq(append(reacted, commented...))
	slices.Sort(out)
	return out, nil
}
