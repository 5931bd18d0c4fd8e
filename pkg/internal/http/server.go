package http

import (
	"strings"

	pkg "git.solsynth.dev/hypernet/asirnet/pkg/internal"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type HTTPApp struct {
	app *fiber.App
}

func NewServer(svc *services.Services, tokens auth.TokenManager) *HTTPApp {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Hypernet.Asirnet",
		AppName:               "Hypernet.Asirnet v" + pkg.AppVersion,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             4 * 1024 * 1024,
		EnablePrintRoutes:     viper.GetBool("debug.print_routes"),
		ErrorHandler:          exts.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins(), ","),
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodOptions,
		}, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Use(exts.ContextMiddleware(tokens, svc.Accounts.Get))

	api.MapControllers(app, "/api", svc, tokens)

	return &HTTPApp{app}
}

func corsOrigins() []string {
	origins := viper.GetStringSlice("security.cors_origins")
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (v *HTTPApp) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}

func (v *HTTPApp) Shutdown() error {
	return v.app.Shutdown()
}
