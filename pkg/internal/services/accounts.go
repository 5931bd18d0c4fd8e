package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/eko/gocache/lib/v4/marshaler"
	cacheStore "github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
)

type AccountService struct {
	accounts store.AccountStore
	hasher   auth.PasswordHasher
	cache    *marshaler.Marshaler
}

// bind returns a copy working on another account store, used inside transactions.
func (v *AccountService) bind(accounts store.AccountStore) *AccountService {
	clone := *v
	clone.accounts = accounts
	return &clone
}

type Registration struct {
	Name        string `validate:"required,max=64"`
	Password    string `validate:"required,max=72"`
	Description string `validate:"max=4096"`
	Avatar      string `validate:"max=1024"`
}

func GetAccountCacheKey(id uint) string {
	return fmt.Sprintf("account#%d", id)
}

func (v *AccountService) Register(ctx context.Context, data Registration) (models.Account, error) {
	data.Name = strings.TrimSpace(data.Name)
	if err := validateStruct(data); err != nil {
		return models.Account{}, err
	} else if err := checkPassword(data.Password); err != nil {
		return models.Account{}, err
	}

	digest, err := v.hasher.Hash(data.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("unable to hash password: %v", err)
	}

	account := models.Account{
		Name:        data.Name,
		Password:    digest,
		Description: data.Description,
		Avatar:      data.Avatar,
	}
	if err := v.accounts.Create(ctx, &account); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return account, ErrDuplicateIdentity
		}
		return account, err
	}

	log.Info().Uint("account", account.ID).Str("name", account.Name).Msg("Registered a new account...")
	return account, nil
}

// Authenticate never tells an unknown name apart from a wrong password.
func (v *AccountService) Authenticate(ctx context.Context, name, password string) (models.Account, error) {
	account, err := v.accounts.GetByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, store.ErrNotFound) {
		return account, ErrInvalidCredentials
	} else if err != nil {
		return account, err
	}

	if err := v.hasher.Verify(account.Password, password); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (v *AccountService) Get(ctx context.Context, id uint) (models.Account, error) {
	if v.cache != nil {
		if val, err := v.cache.Get(ctx, GetAccountCacheKey(id), new(models.Account)); err == nil {
			return *val.(*models.Account), nil
		}
	}

	account, err := v.accounts.Get(ctx, id)
	if err != nil {
		return account, err
	}

	if v.cache != nil {
		_ = v.cache.Set(
			ctx,
			GetAccountCacheKey(id),
			account,
			cacheStore.WithExpiration(5*time.Minute),
			cacheStore.WithTags([]string{"account", GetAccountCacheKey(id)}),
		)
	}
	return account, nil
}

func (v *AccountService) List(ctx context.Context) ([]models.Account, error) {
	return v.accounts.List(ctx)
}

// ProfileUpdate only touches the fields that are not nil.
type ProfileUpdate struct {
	Name        *string `validate:"omitnil,min=1,max=64"`
	Password    *string `validate:"omitnil,min=1,max=72"`
	Description *string `validate:"omitnil,max=4096"`
	Avatar      *string `validate:"omitnil,max=1024"`
}

func (v *AccountService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (models.Account, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		update.Name = &name
	}
	if err := validateStruct(update); err != nil {
		return models.Account{}, err
	}

	patch := store.AccountPatch{
		Name:        update.Name,
		Description: update.Description,
		Avatar:      update.Avatar,
	}
	if update.Password != nil {
		if err := checkPassword(*update.Password); err != nil {
			return models.Account{}, err
		}
		digest, err := v.hasher.Hash(*update.Password)
		if err != nil {
			return models.Account{}, fmt.Errorf("unable to hash password: %v", err)
		}
		patch.Password = &digest
	}

	account, err := v.accounts.Update(ctx, id, patch)
	if errors.Is(err, store.ErrConflict) {
		return account, ErrDuplicateIdentity
	} else if err != nil {
		return account, err
	}

	v.invalidate(ctx, id)
	return account, nil
}

func (v *AccountService) Delete(ctx context.Context, id uint) error {
	if err := v.accounts.Delete(ctx, id); err != nil {
		return err
	}
	v.invalidate(ctx, id)
	return nil
}

func (v *AccountService) invalidate(ctx context.Context, id uint) {
	if v.cache == nil {
		return
	}
	if err := v.cache.Delete(ctx, GetAccountCacheKey(id)); err != nil {
		log.Debug().Err(err).Uint("account", id).Msg("Unable to drop cached account...")
	}
}
