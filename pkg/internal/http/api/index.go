package api

import (
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

var (
	sv     *services.Services
	tokens auth.TokenManager
)

func MapControllers(app *fiber.App, baseURL string, svc *services.Services, tm auth.TokenManager) {
	sv = svc
	tokens = tm

	api := app.Group(baseURL)
	{
		api.Post("/register", register)
		api.Post("/signup", register)
		api.Post("/login", login)
		api.Post("/signin", login)

		api.Get("/me", getMe)
		api.Put("/editprofile", editMyProfile)
		api.Delete("/deleteuser/:userId", deleteUser)

		users := api.Group("/users").Name("Users API")
		{
			users.Get("/", listUsers)
			users.Get("/:userId", getUser)
			users.Put("/:userId", editUser)
			users.Delete("/:userId", deleteUser)
		}

		for _, prefix := range []string{"/posts", "/post"} {
			posts := api.Group(prefix).Name("Posts API")
			{
				posts.Get("/", listPost)
				posts.Post("/", createPost)
				posts.Get("/:postId", getPost)
				posts.Put("/:postId", editPost)
				posts.Delete("/:postId", deletePost)

				posts.Post("/:postId/react", reactPost)
				posts.Get("/:postId/comments", listComments)
				posts.Post("/:postId/comments", createComment)
			}
		}

		api.Post("/react", reactPost)
		api.Get("/QuanOfReact", countInteractions)
	}
}
