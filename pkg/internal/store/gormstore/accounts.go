package gormstore

import (
	"context"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"gorm.io/gorm"
)

type accountStore struct {
	db *gorm.DB
}

func (v *accountStore) Create(ctx context.Context, account *models.Account) error {
	return translate(v.db.WithContext(ctx).Create(account).Error)
}

func (v *accountStore) Get(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	err := v.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	return account, translate(err)
}

func (v *accountStore) GetByName(ctx context.Context, name string) (models.Account, error) {
	var account models.Account
	err := v.db.WithContext(ctx).Where("name = ?", name).First(&account).Error
	return account, translate(err)
}

func (v *accountStore) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := v.db.WithContext(ctx).Order("id ASC").Find(&accounts).Error
	return accounts, translate(err)
}

func (v *accountStore) Update(ctx context.Context, id uint, patch store.AccountPatch) (models.Account, error) {
	changes := map[string]any{}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Password != nil {
		changes["password"] = *patch.Password
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}
	if patch.Avatar != nil {
		changes["avatar"] = *patch.Avatar
	}

	if len(changes) > 0 {
		tx := v.db.WithContext(ctx).
			Model(&models.Account{}).
			Where("id = ?", id).
			Updates(changes)
		if tx.Error != nil {
			return models.Account{}, translate(tx.Error)
		} else if tx.RowsAffected == 0 {
			return models.Account{}, store.ErrNotFound
		}
	}

	return v.Get(ctx, id)
}

func (v *accountStore) Delete(ctx context.Context, id uint) error {
	tx := v.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Account{})
	if tx.Error != nil {
		return translate(tx.Error)
	} else if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
