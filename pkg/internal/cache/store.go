package cache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/store"
	ristrettoStore "github.com/eko/gocache/store/ristretto/v4"
)

// S is the process wide cache store, set up by NewStore during boot.
var S store.StoreInterface

func NewStore() error {
	s, err := NewRistretto()
	if err != nil {
		return err
	}
	S = s
	return nil
}

func NewRistretto() (store.StoreInterface, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return ristrettoStore.NewRistretto(client), nil
}
