// Package memstore keeps every collection in process memory.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
)

type State struct {
	Accounts  map[uint]models.Account
	Posts     map[uint]models.Post
	Reactions map[uint]models.Reaction
	Comments  map[uint]models.Comment
	Sequence  uint
}

func (s State) Clone() State {
	return State{
		Accounts:  maps.Clone(s.Accounts),
		Posts:     maps.Clone(s.Posts),
		Reactions: maps.Clone(s.Reactions),
		Comments:  maps.Clone(s.Comments),
		Sequence:  s.Sequence,
	}
}

func (s *State) init() {
	if s.Accounts == nil {
		s.Accounts = make(map[uint]models.Account)
	}
	if s.Posts == nil {
		s.Posts = make(map[uint]models.Post)
	}
	if s.Reactions == nil {
		s.Reactions = make(map[uint]models.Reaction)
	}
	if s.Comments == nil {
		s.Comments = make(map[uint]models.Comment)
	}
}

func (s *State) next() uint {
	s.Sequence++
	return s.Sequence
}

// DB is one in-memory backend. Persist, when set, runs after every write
// while the lock is still held; a failing persist reverts the write.
type DB struct {
	mu      sync.RWMutex
	state   State
	persist func(State) error
	now     func() time.Time
}

func NewDB(state State, persist func(State) error) *DB {
	state.init()
	return &DB{state: state, persist: persist, now: time.Now}
}

// New returns a single backend holding all collections, with atomic
// multi-collection operations.
func New() store.Set {
	return NewDB(State{}, nil).Set()
}

// NewSplit returns each collection in its own backend, like three separate
// database pools. The returned set has no Atomic transactor.
func NewSplit() store.Set {
	return store.Set{
		Accounts:     &accountStore{db: NewDB(State{}, nil)},
		Posts:        &postStore{db: NewDB(State{}, nil)},
		Interactions: &interactionStore{db: NewDB(State{}, nil)},
	}
}

func (db *DB) Set() store.Set {
	set := db.stores()
	set.Atomic = db
	return set
}

func (db *DB) stores() store.Set {
	return store.Set{
		Accounts:     &accountStore{db: db},
		Posts:        &postStore{db: db},
		Interactions: &interactionStore{db: db},
	}
}

func (db *DB) Snapshot() State {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.state.Clone()
}

func (db *DB) read(fn func(s *State) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(&db.state)
}

// write applies fn to the state. fn must validate before it mutates anything.
func (db *DB) write(fn func(s *State) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var backup State
	if db.persist != nil {
		backup = db.state.Clone()
	}
	if err := fn(&db.state); err != nil {
		return err
	}
	if db.persist != nil {
		if err := db.persist(db.state); err != nil {
			db.state = backup
			return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
		}
	}
	return nil
}

// Transaction runs fn on a private copy of the state and swaps it in when fn
// succeeds. Other callers wait until the transaction finishes.
func (db *DB) Transaction(ctx context.Context, fn func(tx store.Set) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := &DB{state: db.state.Clone(), now: db.now}
	if err := fn(tx.stores()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if db.persist != nil {
		if err := db.persist(tx.state); err != nil {
			return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
		}
	}
	db.state = tx.state
	return nil
}
