package api

import (
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func reactPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUser(c)

	var data struct {
		PostID   uint                    `json:"post_id"`
		Symbol   string                  `json:"symbol" validate:"required"`
		Attitude models.ReactionAttitude `json:"attitude"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if len(c.Params("postId")) > 0 {
		id, err := postIdFromParams(c)
		if err != nil {
			return err
		}
		data.PostID = id
	}

	reaction, created, err := sv.Interactions.ReactPost(c.UserContext(), services.ReactionInput{
		PostID:    data.PostID,
		AccountID: user.ID,
		Symbol:    data.Symbol,
		Attitude:  data.Attitude,
	})
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(struct {
		models.Reaction
		Created bool `json:"created"`
	}{reaction, created})
}

func countInteractions(c *fiber.Ctx) error {
	id := c.QueryInt("postId", 0)
	if id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "missing post id in request")
	}

	counts, err := sv.Interactions.CountInteractions(c.UserContext(), uint(id))
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(counts)
}
