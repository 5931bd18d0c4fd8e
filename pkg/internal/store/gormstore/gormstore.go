// Package gormstore stores the collections in relational databases through gorm.
// Every collection gets its own connection; when all three are the same
// connection the coordinator operations run in a single transaction.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"gorm.io/gorm"
)

func NewSet(users, content, interactions *gorm.DB) store.Set {
	set := stores(users, content, interactions)
	if users == content && content == interactions {
		set.Atomic = transactor{db: users}
	}
	return set
}

func stores(users, content, interactions *gorm.DB) store.Set {
	return store.Set{
		Accounts:     &accountStore{db: users},
		Posts:        &postStore{db: content},
		Interactions: &interactionStore{db: interactions},
	}
}

type transactor struct {
	db *gorm.DB
}

func (v transactor) Transaction(ctx context.Context, fn func(tx store.Set) error) error {
	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(stores(tx, tx, tx))
	})
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case isDuplicate(err):
		return store.ErrConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
}
