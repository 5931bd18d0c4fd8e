package api

import (
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func postIdFromParams(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("postId", 0)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}
	return uint(id), nil
}

func listPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", services.DefaultPostTake)
	offset := c.QueryInt("offset", 0)
	if take > services.MaxPostTake {
		return fiber.NewError(fiber.StatusBadRequest, "you can only take 100 posts at once")
	}

	query := services.PostQuery{Take: take, Offset: offset}
	if author := c.QueryInt("author", 0); author > 0 {
		id := uint(author)
		query.AuthorID = &id
	}

	items, err := sv.Posts.ListPost(c.UserContext(), query)
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(items)
}

func getPost(c *fiber.Ctx) error {
	id, err := postIdFromParams(c)
	if err != nil {
		return err
	}

	item, err := sv.Posts.GetPost(c.UserContext(), id)
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(item)
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUser(c)

	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := sv.Posts.NewPost(c.UserContext(), user.ID, data.Content)
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(item)
}

func editPost(c *fiber.Ctx) error {
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

	item, err := sv.Posts.EditPost(c.UserContext(), id, user.ID, data.Content)
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(item)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetUser(c)
	id, err := postIdFromParams(c)
	if err != nil {
		return err
	}

	if err := sv.Coordinator.DeletePost(c.UserContext(), id, user.ID); err != nil {
		return exts.NewError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}
