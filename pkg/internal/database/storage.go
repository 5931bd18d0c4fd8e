package database

import (
	"fmt"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/filestore"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/gormstore"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/memstore"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// NewStorage opens the backend selected by storage.driver.
func NewStorage() (store.Set, error) {
	driver := viper.GetString("storage.driver")
	switch driver {
	case "memory":
		log.Warn().Msg("Using in-memory storage, everything will be lost on restart.")
		return memstore.New(), nil
	case "file":
		return filestore.Open(viper.GetString("storage.path"))
	case "postgres", "sqlite":
		pools, err := Connect(driver)
		if err != nil {
			return store.Set{}, err
		}
		if err := RunMigration(pools); err != nil {
			return store.Set{}, fmt.Errorf("unable to run migration: %v", err)
		}
		return gormstore.NewSet(pools.Users, pools.Content, pools.Interactions), nil
	default:
		return store.Set{}, fmt.Errorf("unsupported storage driver: %q", driver)
	}
}
