package database

import (
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"gorm.io/gorm"
)

// AutoMaintainRange lists the models owned by each collection.
var AutoMaintainRange = struct {
	Users        []any
	Content      []any
	Interactions []any
}{
	Users:        []any{&models.Account{}},
	Content:      []any{&models.Post{}},
	Interactions: []any{&models.Reaction{}, &models.Comment{}},
}

func RunMigration(pools Pools) error {
	for _, target := range []struct {
		source *gorm.DB
		models []any
	}{
		{pools.Users, AutoMaintainRange.Users},
		{pools.Content, AutoMaintainRange.Content},
		{pools.Interactions, AutoMaintainRange.Interactions},
	} {
		if err := target.source.AutoMigrate(target.models...); err != nil {
			return err
		}
	}

	return nil
}
