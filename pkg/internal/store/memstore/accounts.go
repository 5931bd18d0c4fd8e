package memstore

import (
	"cmp"
	"context"
	"slices"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/samber/lo"
)

type accountStore struct {
	db *DB
}

func nameTaken(s *State, name string, except uint) bool {
	for id, account := range s.Accounts {
		if id != except && account.Name == name {
			return true
		}
	}
	return false
}

func (v *accountStore) Create(_ context.Context, account *models.Account) error {
	return v.db.write(func(s *State) error {
		if nameTaken(s, account.Name, 0) {
			return store.ErrConflict
		}
		now := v.db.now()
		account.ID = s.next()
		account.CreatedAt = now
		account.UpdatedAt = now
		s.Accounts[account.ID] = *account
		return nil
	})
}

func (v *accountStore) Get(_ context.Context, id uint) (models.Account, error) {
	var account models.Account
	err := v.db.read(func(s *State) error {
		item, ok := s.Accounts[id]
		if !ok {
			return store.ErrNotFound
		}
		account = item
		return nil
	})
	return account, err
}

func (v *accountStore) GetByName(_ context.Context, name string) (models.Account, error) {
	var account models.Account
	err := v.db.read(func(s *State) error {
		item, ok := lo.Find(lo.Values(s.Accounts), func(item models.Account) bool {
			return item.Name == name
		})
		if !ok {
			return store.ErrNotFound
		}
		account = item
		return nil
	})
	return account, err
}

func (v *accountStore) List(_ context.Context) ([]models.Account, error) {
	var out []models.Account
	err := v.db.read(func(s *State) error {
		out = lo.Values(s.Accounts)
		return nil
	})
	slices.SortFunc(out, func(a, b models.Account) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, err
}

func (v *accountStore) Update(_ context.Context, id uint, patch store.AccountPatch) (models.Account, error) {
	var account models.Account
	err := v.db.write(func(s *State) error {
		item, ok := s.Accounts[id]
		if !ok {
			return store.ErrNotFound
		}
		if patch.Name != nil && nameTaken(s, *patch.Name, id) {
			return store.ErrConflict
		}
		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Password != nil {
			item.Password = *patch.Password
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Avatar != nil {
			item.Avatar = *patch.Avatar
		}
		item.UpdatedAt = v.db.now()
		s.Accounts[id] = item
		account = item
		return nil
	})
	return account, err
}

func (v *accountStore) Delete(_ context.Context, id uint) error {
	return v.db.write(func(s *State) error {
		if _, ok := s.Accounts[id]; !ok {
			return store.ErrNotFound
		}
		delete(s.Accounts, id)
		return nil
	})
}
