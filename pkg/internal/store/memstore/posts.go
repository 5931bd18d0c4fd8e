package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/samber/lo"
)

type postStore struct {
	db *DB
}

func newestFirst(a, b models.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func paginate[T any](items []T, take, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if take > 0 && take < len(items) {
		items = items[:take]
	}
	return items
}

func (v *postStore) Create(_ context.Context, post *models.Post) error {
	return v.db.write(func(s *State) error {
		now := v.db.now()
		post.ID = s.next()
		post.CreatedAt = now
		post.UpdatedAt = now
		s.Posts[post.ID] = *post
		return nil
	})
}

func (v *postStore) Get(_ context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := v.db.read(func(s *State) error {
		item, ok := s.Posts[id]
		if !ok {
			return store.ErrNotFound
		}
		post = item
		return nil
	})
	return post, err
}

func (v *postStore) List(_ context.Context, query store.PostQuery) ([]models.Post, error) {
	var out []models.Post
	err := v.db.read(func(s *State) error {
		out = lo.Filter(lo.Values(s.Posts), func(item models.Post, _ int) bool {
			return query.AccountID == nil || item.AccountID == *query.AccountID
		})
		return nil
	})
	slices.SortFunc(out, newestFirst)
	return paginate(out, query.Take, query.Offset), err
}

func (v *postStore) UpdateContent(_ context.Context, id uint, content, language string, editedAt time.Time) (models.Post, error) {
	var post models.Post
	err := v.db.write(func(s *State) error {
		item, ok := s.Posts[id]
		if !ok {
			return store.ErrNotFound
		}
		item.Content = content
		item.Language = language
		item.EditedAt = &editedAt
		item.UpdatedAt = v.db.now()
		s.Posts[id] = item
		post = item
		return nil
	})
	return post, err
}

func (v *postStore) Delete(_ context.Context, id uint) error {
	return v.db.write(func(s *State) error {
		if _, ok := s.Posts[id]; !ok {
			return store.ErrNotFound
		}
		delete(s.Posts, id)
		return nil
	})
}

func (v *postStore) DeleteAllByAuthor(_ context.Context, accountID uint) (int64, error) {
	var count int64
	err := v.db.write(func(s *State) error {
		for id, post := range s.Posts {
			if post.AccountID == accountID {
				delete(s.Posts, id)
				count++
			}
		}
		return nil
	})
	return count, err
}

func (v *postStore) UpdateAuthorSnapshot(_ context.Context, accountID uint, snapshot models.AuthorSnapshot) (int64, error) {
	var count int64
	err := v.db.write(func(s *State) error {
		now := v.db.now()
		for id, post := range s.Posts {
			if post.AccountID != accountID || post.Snapshot() == snapshot {
				continue
			}
			post.AuthorName = snapshot.Name
			post.AuthorAvatar = snapshot.Avatar
			post.UpdatedAt = now
			s.Posts[id] = post
			count++
		}
		return nil
	})
	return count, err
}

func (v *postStore) ListIDsByAuthor(_ context.Context, accountID uint) ([]uint, error) {
	var out []uint
	err := v.db.read(func(s *State) error {
		for id, post := range s.Posts {
			if post.AccountID == accountID {
				out = append(out, id)
			}
		}
		return nil
	})
	slices.Sort(out)
	return out, err
}

func (v *postStore) ListAuthorIDs(_ context.Context) ([]uint, error) {
	var out []uint
	err := v.db.read(func(s *State) error {
		out = lo.Uniq(lo.MapToSlice(s.Posts, func(_ uint, post models.Post) uint {
			return post.AccountID
		}))
		return nil
	})
	slices.Sort(out)
	return out, err
}

func (v *postStore) Exists(_ context.Context, ids []uint) ([]uint, error) {
	var out []uint
	err := v.db.read(func(s *State) error {
		out = lo.Filter(lo.Uniq(ids), func(id uint, _ int) bool {
			_, ok := s.Posts[id]
			return ok
		})
		return nil
	})
	return out, err
}
