// Package filestore persists every collection into one flat JSON document.
// Records live in memory and the whole document is rewritten after each write.
package filestore

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/memstore"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// accountRecord exists because the API model never serializes the password digest.
type accountRecord struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Password    string    `json:"password"`
	Description string    `json:"description"`
	Avatar      string    `json:"avatar"`
}

type document struct {
	Sequence  uint              `json:"sequence"`
	Accounts  []accountRecord   `json:"accounts"`
	Posts     []models.Post     `json:"posts"`
	Reactions []models.Reaction `json:"reactions"`
	Comments  []models.Comment  `json:"comments"`
}

func sortedValues[T any](in map[uint]T, id func(T) uint) []T {
	out := lo.Values(in)
	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})
	return out
}

func encode(state memstore.State) document {
	return document{
		Sequence: state.Sequence,
		Accounts: lo.Map(sortedValues(state.Accounts, func(item models.Account) uint {
			return item.ID
		}), func(item models.Account, _ int) accountRecord {
			return accountRecord{
				ID:          item.ID,
				CreatedAt:   item.CreatedAt,
				UpdatedAt:   item.UpdatedAt,
				Name:        item.Name,
				Password:    item.Password,
				Description: item.Description,
				Avatar:      item.Avatar,
			}
		}),
		Posts: lo.Map(sortedValues(state.Posts, func(item models.Post) uint {
			return item.ID
		}), func(item models.Post, _ int) models.Post {
			item.Metric = models.PostMetric{}
			return item
		}),
		Reactions: sortedValues(state.Reactions, func(item models.Reaction) uint {
			return item.ID
		}),
		Comments: sortedValues(state.Comments, func(item models.Comment) uint {
			return item.ID
		}),
	}
}

func decode(doc document) memstore.State {
	state := memstore.State{
		Sequence: doc.Sequence,
		Accounts: lo.SliceToMap(doc.Accounts, func(item accountRecord) (uint, models.Account) {
			return item.ID, models.Account{
				BaseModel: models.BaseModel{
					ID:        item.ID,
					CreatedAt: item.CreatedAt,
					UpdatedAt: item.UpdatedAt,
				},
				Name:        item.Name,
				Password:    item.Password,
				Description: item.Description,
				Avatar:      item.Avatar,
			}
		}),
		Posts: lo.SliceToMap(doc.Posts, func(item models.Post) (uint, models.Post) {
			return item.ID, item
		}),
		Reactions: lo.SliceToMap(doc.Reactions, func(item models.Reaction) (uint, models.Reaction) {
			return item.ID, item
		}),
		Comments: lo.SliceToMap(doc.Comments, func(item models.Comment) (uint, models.Comment) {
			return item.ID, item
		}),
	}
	return state
}

func load(path string) (memstore.State, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return memstore.State{}, nil
	} else if err != nil {
		return memstore.State{}, fmt.Errorf("unable to read store file: %v", err)
	}

	var doc document
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return memstore.State{}, fmt.Errorf("unable to parse store file: %v", err)
		}
	}
	return decode(doc), nil
}

func save(path string, state memstore.State) error {
	raw, err := json.MarshalIndent(encode(state), "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Open loads the document at path, creating it on the first write.
// All collections share the file, so the returned set is atomic.
func Open(path string) (store.Set, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return store.Set{}, fmt.Errorf("unable to prepare store directory: %v", err)
		}
	}

	state, err := load(path)
	if err != nil {
		return store.Set{}, err
	}
	log.Info().
		Str("path", path).
		Int("accounts", len(state.Accounts)).
		Int("posts", len(state.Posts)).
		Msg("Loaded file store...")

	db := memstore.NewDB(state, func(state memstore.State) error {
		return save(path, state)
	})
	return db.Set(), nil
}
