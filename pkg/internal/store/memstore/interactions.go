package memstore

import (
	"cmp"
	"context"
	"slices"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/samber/lo"
)

type interactionStore struct {
	db *DB
}

func (v *interactionStore) AddReaction(_ context.Context, reaction *models.Reaction) error {
	return v.db.write(func(s *State) error {
		for _, item := range s.Reactions {
			if item.PostID == reaction.PostID &&
				item.AccountID == reaction.AccountID &&
				item.Symbol == reaction.Symbol {
				return store.ErrConflict
			}
		}
		now := v.db.now()
		reaction.ID = s.next()
		reaction.CreatedAt = now
		reaction.UpdatedAt = now
		s.Reactions[reaction.ID] = *reaction
		return nil
	})
}

func (v *interactionStore) FindReaction(_ context.Context, postID, accountID uint, symbol string) (models.Reaction, error) {
	var reaction models.Reaction
	err := v.db.read(func(s *State) error {
		item, ok := lo.Find(lo.Values(s.Reactions), func(item models.Reaction) bool {
			return item.PostID == postID && item.AccountID == accountID && item.Symbol == symbol
		})
		if !ok {
			return store.ErrNotFound
		}
		reaction = item
		return nil
	})
	return reaction, err
}

func (v *interactionStore) AddComment(_ context.Context, comment *models.Comment) error {
	return v.db.write(func(s *State) error {
		now := v.db.now()
		comment.ID = s.next()
		comment.CreatedAt = now
		comment.UpdatedAt = now
		s.Comments[comment.ID] = *comment
		return nil
	})
}

func (v *interactionStore) ListComments(_ context.Context, postID uint, take, offset int) ([]models.Comment, error) {
	var out []models.Comment
	err := v.db.read(func(s *State) error {
		out = lo.Filter(lo.Values(s.Comments), func(item models.Comment, _ int) bool {
			return item.PostID == postID
		})
		return nil
	})
	slices.SortFunc(out, func(a, b models.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return paginate(out, take, offset), err
}

func (v *interactionStore) CountReactions(_ context.Context, postID uint) (int64, error) {
	var count int64
	err := v.db.read(func(s *State) error {
		count = int64(lo.CountBy(lo.Values(s.Reactions), func(item models.Reaction) bool {
			return item.PostID == postID
		}))
		return nil
	})
	return count, err
}

func (v *interactionStore) CountComments(_ context.Context, postID uint) (int64, error) {
	var count int64
	err := v.db.read(func(s *State) error {
		count = int64(lo.CountBy(lo.Values(s.Comments), func(item models.Comment) bool {
			return item.PostID == postID
		}))
		return nil
	})
	return count, err
}

func (v *interactionStore) Metrics(_ context.Context, postIDs []uint) (map[uint]models.PostMetric, error) {
	out := make(map[uint]models.PostMetric, len(postIDs))
	err := v.db.read(func(s *State) error {
		for _, id := range postIDs {
			out[id] = models.PostMetric{}
		}
		for _, item := range s.Reactions {
			if metric, ok := out[item.PostID]; ok {
				metric.ReactionCount++
				out[item.PostID] = metric
			}
		}
		for _, item := range s.Comments {
			if metric, ok := out[item.PostID]; ok {
				metric.CommentCount++
				out[item.PostID] = metric
			}
		}
		return nil
	})
	return out, err
}

func (v *interactionStore) deleteWhere(match func(postID, accountID uint) bool) (int64, error) {
	var count int64
	err := v.db.write(func(s *State) error {
		for id, item := range s.Reactions {
			if match(item.PostID, item.AccountID) {
				delete(s.Reactions, id)
				count++
			}
		}
		for id, item := range s.Comments {
			if match(item.PostID, item.AccountID) {
				delete(s.Comments, id)
				count++
			}
		}
		return nil
	})
	return count, err
}

func (v *interactionStore) DeleteAllByPost(_ context.Context, postID uint) (int64, error) {
	return v.deleteWhere(func(post, _ uint) bool {
		return post == postID
	})
}

func (v *interactionStore) DeleteAllByPosts(_ context.Context, postIDs []uint) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	return v.deleteWhere(func(post, _ uint) bool {
		return slices.Contains(postIDs, post)
	})
}

func (v *interactionStore) DeleteAllByAccount(_ context.Context, accountID uint) (int64, error) {
	return v.deleteWhere(func(_, account uint) bool {
		return account == accountID
	})
}

func (v *interactionStore) ListPostIDs(_ context.Context) ([]uint, error) {
	var out []uint
	err := v.db.read(func(s *State) error {
		for _, item := range s.Reactions {
			out = append(out, item.PostID)
		}
		for _, item := range s.Comments {
			out = append(out, item.PostID)
		}
		return nil
	})
	out = lo.Uniq(out)
	slices.Sort(out)
	return out, err
}
