package api

import (
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func listComments(c *fiber.Ctx) error {
	id, err := postIdFromParams(c)
	if err != nil {
		return err
	}

	items, err := sv.Interactions.ListComments(
		c.UserContext(),
		id,
		c.QueryInt("take", 0),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(items)
}

func createComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUser(c)
	id, err := postIdFromParams(c)
	if err != nil {
		return err
	}

	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := sv.Interactions.NewComment(c.UserContext(), id, user.ID, data.Content)
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(item)
}
