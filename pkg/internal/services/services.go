package services

import (
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	cacheStore "github.com/eko/gocache/lib/v4/store"
)

type Options struct {
	Hasher auth.PasswordHasher
	// Cache is optional, accounts are read from the store every time without it.
	Cache    cacheStore.StoreInterface
	Detector LanguageDetector
}

type Services struct {
	Accounts     *AccountService
	Posts        *PostService
	Interactions *InteractionService
	Coordinator  *Coordinator
}

func New(set store.Set, opts Options) *Services {
	if opts.Hasher == nil {
		opts.Hasher = auth.NewBcryptHasher(0)
	}

	accounts := &AccountService{
		accounts: set.Accounts,
		hasher:   opts.Hasher,
	}
	if opts.Cache != nil {
		accounts.cache = marshaler.New(cache.New[any](opts.Cache))
	}

	posts := &PostService{
		accounts:     accounts,
		posts:        set.Posts,
		interactions: set.Interactions,
		detector:     opts.Detector,
		now:          time.Now,
	}

	return &Services{
		Accounts: accounts,
		Posts:    posts,
		Interactions: &InteractionService{
			posts:        set.Posts,
			interactions: set.Interactions,
		},
		Coordinator: &Coordinator{
			set:      set,
			accounts: accounts,
			posts:    posts,
		},
	}
}
