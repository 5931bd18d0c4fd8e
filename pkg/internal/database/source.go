package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Pools holds one connection per collection. Collections configured with the
// same DSN share a connection.
type Pools struct {
	Users        *gorm.DB
	Content      *gorm.DB
	Interactions *gorm.DB
}

func NewDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func NewGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: viper.GetString("database.prefix"),
		},
		Logger: logger.New(&log.Logger, logger.Config{
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  lo.Ternary(viper.GetBool("debug.database"), logger.Info, logger.Silent),
		}),
		TranslateError: true,
	})
}

func Connect(driver string) (Pools, error) {
	opened := make(map[string]*gorm.DB)
	open := func(key string) (*gorm.DB, error) {
		dsn := viper.GetString(key)
		if conn, ok := opened[dsn]; ok {
			return conn, nil
		}
		dialector, err := NewDialector(driver, dsn)
		if err != nil {
			return nil, err
		}
		conn, err := NewGorm(dialector)
		if err != nil {
			return nil, fmt.Errorf("unable to connect %s: %v", key, err)
		}
		opened[dsn] = conn
		return conn, nil
	}

	var pools Pools
	var err error
	if pools.Users, err = open("database.users"); err != nil {
		return pools, err
	}
	if pools.Content, err = open("database.content"); err != nil {
		return pools, err
	}
	if pools.Interactions, err = open("database.interactions"); err != nil {
		return pools, err
	}

	log.Info().Str("driver", driver).Int("connections", len(opened)).Msg("Connected to database...")
	return pools, nil
}
