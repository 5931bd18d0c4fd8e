package gormstore

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"gorm.io/gorm"
)

type postStore struct {
	db *gorm.DB
}

func (v *postStore) Create(ctx context.Context, post *models.Post) error {
	return translate(v.db.WithContext(ctx).Create(post).Error)
}

func (v *postStore) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := v.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	return post, translate(err)
}

func (v *postStore) List(ctx context.Context, query store.PostQuery) ([]models.Post, error) {
	tx := v.db.WithContext(ctx)
	if query.AccountID != nil {
		tx = tx.Where("account_id = ?", *query.AccountID)
	}
	if query.Take > 0 {
		tx = tx.Limit(query.Take)
	}
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}

	var posts []models.Post
	err := tx.Order("created_at DESC, id DESC").Find(&posts).Error
	return posts, translate(err)
}

func (v *postStore) UpdateContent(ctx context.Context, id uint, content, language string, editedAt time.Time) (models.Post, error) {
	tx := v.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":   content,
			"language":  language,
			"edited_at": editedAt,
		})
	if tx.Error != nil {
		return models.Post{}, translate(tx.Error)
	} else if tx.RowsAffected == 0 {
		return models.Post{}, store.ErrNotFound
	}
	return v.Get(ctx, id)
}

func (v *postStore) Delete(ctx context.Context, id uint) error {
	tx := v.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if tx.Error != nil {
		return translate(tx.Error)
	} else if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (v *postStore) DeleteAllByAuthor(ctx context.Context, accountID uint) (int64, error) {
	tx := v.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&models.Post{})
	return tx.RowsAffected, translate(tx.Error)
}

func (v *postStore) UpdateAuthorSnapshot(ctx context.Context, accountID uint, snapshot models.AuthorSnapshot) (int64, error) {
	tx := v.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("account_id = ? AND (author_name <> ? OR author_avatar <> ?)", accountID, snapshot.Name, snapshot.Avatar).
		Updates(map[string]any{
			"author_name":   snapshot.Name,
			"author_avatar": snapshot.Avatar,
		})
	return tx.RowsAffected, translate(tx.Error)
}

func (v *postStore) ListIDsByAuthor(ctx context.Context, accountID uint) ([]uint, error) {
	var ids []uint
	err := v.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, translate(err)
}

func (v *postStore) ListAuthorIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := v.db.WithContext(ctx).
		Model(&models.Post{}).
		Distinct().
		Order("account_id ASC").
		Pluck("account_id", &ids).Error
	return ids, translate(err)
}

func (v *postStore) Exists(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := v.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error
	return out, translate(err)
}
