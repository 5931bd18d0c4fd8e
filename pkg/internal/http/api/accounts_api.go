package api

import (
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

func register(c *fiber.Ctx) error {
	var data struct {
		Name        string `json:"name"`
		Username    string `json:"username"`
		Password    string `json:"password" validate:"required"`
		Description string `json:"description"`
		Avatar      string `json:"avatar"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := sv.Accounts.Register(c.UserContext(), services.Registration{
		Name:        lo.Ternary(len(data.Name) > 0, data.Name, data.Username),
		Password:    data.Password,
		Description: data.Description,
		Avatar:      data.Avatar,
	})
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Registered!",
		"account": account,
	})
}

func login(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := sv.Accounts.Authenticate(
		c.UserContext(),
		lo.Ternary(len(data.Name) > 0, data.Name, data.Username),
		data.Password,
	)
	if err != nil {
		return exts.NewError(err)
	}

	token, err := tokens.Issue(account)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"account": account,
	})
}

func getMe(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	return c.JSON(exts.GetUser(c))
}

func listUsers(c *fiber.Ctx) error {
	accounts, err := sv.Accounts.List(c.UserContext())
	if err != nil {
		return exts.NewError(err)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return c.JSON(accounts)
}

func getUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("userId", 0)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	account, err := sv.Accounts.Get(c.UserContext(), uint(id))
	if err != nil {
		return exts.NewError(err)
	}
	return c.JSON(account)
}

// ensureSelf checks the userId path parameter points to the caller.
func ensureSelf(c *fiber.Ctx) (models.Account, error) {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return models.Account{}, err
	}
	user := exts.GetUser(c)

	id, err := c.ParamsInt("userId", 0)
	if err != nil || id <= 0 {
		return user, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	if uint(id) != user.ID {
		return user, exts.NewError(services.ErrForbidden)
	}
	return user, nil
}

func updateProfile(c *fiber.Ctx, user models.Account) error {
	var data struct {
		Name        *string `json:"name"`
		Username    *string `json:"username"`
		Password    *string `json:"password"`
		Description *string `json:"description"`
		Avatar      *string `json:"avatar"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := sv.Coordinator.UpdateProfile(c.UserContext(), user.ID, services.ProfileUpdate{
		Name:        lo.Ternary(data.Name != nil, data.Name, data.Username),
		Password:    data.Password,
		Description: data.Description,
		Avatar:      data.Avatar,
	})
	if err != nil {
		return exts.NewError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Your account updated",
		"account": account,
	})
}

func editMyProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	return updateProfile(c, exts.GetUser(c))
}

func editUser(c *fiber.Ctx) error {
	user, err := ensureSelf(c)
	if err != nil {
		return err
	}
	return updateProfile(c, user)
}

func deleteUser(c *fiber.Ctx) error {
	user, err := ensureSelf(c)
	if err != nil {
		return err
	}

	if err := sv.Coordinator.DeleteAccount(c.UserContext(), user.ID); err != nil {
		return exts.NewError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Deleted",
	})
}
