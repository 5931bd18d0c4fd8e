package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/asirnet/pkg/internal"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/cache"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/database"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/http"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("    _        _                _\n   / \\   ___(_)_ __ _ __   ___| |_\n  / _ \\ / __| | '__| '_ \\ / _ \\ __|\n / ___ \\\\__ \\ | |  | | | |  __/ |_\n/_/   \\_\\___/_|_|  |_| |_|\\___|\\__|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Asirnet"), pkg.AppVersion)
	fmt.Printf("The tiny social network in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetDefault("bind", "0.0.0.0:3000")
	viper.SetDefault("storage.driver", "memory")
	viper.SetDefault("security.token_ttl", "24h")
	viper.SetDefault("reconcile.schedule", "@every 60m")
	viper.SetDefault("keepalive.schedule", "@every 10m")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Connect to storage
	set, err := database.NewStorage()
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to storage.")
	}
	if set.Atomic == nil {
		log.Warn().Msg("Collections live in separate backends, multi-step operations may be partially applied on failure.")
	}

	secret := viper.GetString("security.jwt_secret")
	if len(secret) == 0 {
		log.Fatal().Msg("Security.jwt_secret must be set.")
	}
	tokens := auth.NewJWT(secret, viper.GetDuration("security.token_ttl"))

	svc := services.New(set, services.Options{
		Hasher:   auth.NewBcryptHasher(viper.GetInt("security.bcrypt_cost")),
		Cache:    cache.S,
		Detector: services.NewLanguageDetector(),
	})

	// Read keep alive targets
	services.ReadKeepAliveConfig()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("reconcile.schedule"), svc.Coordinator.ReconcileTimedTask); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling reconciler.")
	}
	if _, err := quartz.AddFunc(viper.GetString("keepalive.schedule"), services.KeepAliveTimedTask); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling keep alive.")
	}
	quartz.Start()

	// Server
	server := http.NewServer(svc, tokens)
	go server.Listen()

	log.Info().Str("bind", viper.GetString("bind")).Str("storage", viper.GetString("storage.driver")).Msg("Asirnet is up and running!")

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}
