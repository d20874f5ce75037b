package authRoutes

import (
	"github.com/shuddl/quizlaw/config"
	authController "github.com/shuddl/quizlaw/controllers/auth"
	authValidator "github.com/shuddl/quizlaw/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, cfg *config.Config) {
	authGroup := app.Group("/api/v1/auth")

	authGroup.Post("/register", authValidator.Register(), authController.Register(cfg))
	authGroup.Post("/login", authValidator.Login(), authController.Login(cfg))
}
