package adminRoutes

import (
	"github.com/shuddl/quizlaw/config"
	adminController "github.com/shuddl/quizlaw/controllers/admin"
	"github.com/shuddl/quizlaw/generator"
	"github.com/shuddl/quizlaw/middleware"
	"github.com/shuddl/quizlaw/scraper"
	adminValidator "github.com/shuddl/quizlaw/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up content management routes. Every route requires
// an authenticated admin.
func SetupAdminRoutes(app *fiber.App, cfg *config.Config, gen *generator.Service, scr *scraper.Service) {
	adminGroup := app.Group("/api/v1/admin", middleware.JWTMiddleware(cfg), middleware.AdminOnly())

	adminGroup.Post("/generate", adminValidator.Generate(), adminController.GenerateMCQs(gen))
	adminGroup.Get("/generation-runs", adminController.GenerationRuns)
	adminGroup.Post("/bar-relevance", adminValidator.BarRelevance(), adminController.UpdateBarRelevance)
	adminGroup.Post("/scrape", adminValidator.Scrape(), adminController.RunScrape(scr))
	adminGroup.Patch("/users/:id/subscription", adminValidator.SubscriptionTier(), adminController.SetSubscriptionTier(cfg))
}
