package exts

import (
	"context"
	"errors"
	"strings"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AccountResolver looks up the account a verified token belongs to.
type AccountResolver func(ctx context.Context, id uint) (models.Account, error)

func tokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// ContextMiddleware puts the caller's account into the "user" local when the
// request carries a valid token. The account is resolved on every request, so
// tokens of deleted accounts stop working at once.
func ContextMiddleware(tokens auth.TokenManager, resolve AccountResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if len(token) == 0 {
			return c.Next()
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			c.Locals("auth_error", "invalid token")
			return c.Next()
		}
		id, _ := claims.AccountID()
		account, err := resolve(c.UserContext(), id)
		if errors.Is(err, services.ErrNotFound) {
			log.Debug().Uint("account", id).Msg("Token holder no longer exists...")
			c.Locals("auth_error", "account no longer exists")
			return c.Next()
		} else if err != nil {
			log.Warn().Err(err).Uint("account", id).Msg("Unable to resolve token holder...")
			c.Locals("auth_failure", err)
			return c.Next()
		}

		c.Locals("user", account)
		return c.Next()
	}
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Account); ok {
		return nil
	}
	if err, ok := c.Locals("auth_failure").(error); ok {
		return NewError(err)
	}
	if reason, ok := c.Locals("auth_error").(string); ok {
		return fiber.NewError(fiber.StatusUnauthorized, reason)
	}
	return fiber.NewError(fiber.StatusUnauthorized, "no token")
}

func GetUser(c *fiber.Ctx) models.Account {
	return c.Locals("user").(models.Account)
}
