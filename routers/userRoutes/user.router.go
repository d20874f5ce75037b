package userRoutes

import (
	"github.com/shuddl/quizlaw/analytics"
	"github.com/shuddl/quizlaw/config"
	userController "github.com/shuddl/quizlaw/controllers/user"
	"github.com/shuddl/quizlaw/middleware"
	userValidator "github.com/shuddl/quizlaw/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile and learning summary routes
func SetupUserRoutes(app *fiber.App, cfg *config.Config, client analytics.TextClient) {
	userGroup := app.Group("/api/v1/users")

	userGroup.Get("/learning-goals", userController.LearningGoals)
	userGroup.Get("/me", middleware.JWTMiddleware(cfg), userController.Me)
	userGroup.Put("/me", middleware.JWTMiddleware(cfg), userValidator.UpdateProfile(), userController.UpdateMe(cfg))
	userGroup.Get("/me/learning-summary", middleware.JWTMiddleware(cfg), userController.LearningSummary(cfg, client))
}
