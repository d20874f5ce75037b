package adminController

import (
	"errors"
	"log"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/generator"
	"github.com/shuddl/quizlaw/middleware"
	"github.com/shuddl/quizlaw/models"
	"github.com/shuddl/quizlaw/scraper"
	"github.com/shuddl/quizlaw/store"
	"github.com/shuddl/quizlaw/utils"
	adminValidator "github.com/shuddl/quizlaw/validators/admin"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GenerateMCQs runs MCQ generation over every section of a division and
// reports the run outcome.
func GenerateMCQs(gen *generator.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedGenerate").(*adminValidator.GeneratePayload)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		run, err := gen.GenerateForDivision(c.Context(), reqData.Division, *reqData.NumPerSection, 0)
		if errors.Is(err, store.ErrUnknownDivision) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown division!", nil)
		}
		if err != nil {
			log.Printf("Error generating MCQs for %s: %v", reqData.Division, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "MCQ generation failed!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ generation completed.", run)
	}
}

// GenerationRuns lists recent generation runs, newest first.
func GenerationRuns(c *fiber.Ctx) error {
	runs, err := store.RecentGenerationRuns(database.Database.Db, 20)
	if err != nil {
		log.Printf("Error listing generation runs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch generation runs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Generation runs fetched.", fiber.Map{
		"runs": runs,
	})
}

// UpdateBarRelevance replaces the bar relevant section set of a division.
func UpdateBarRelevance(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBarRelevance").(*adminValidator.BarRelevancePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	result, err := store.UpdateBarRelevance(database.Database.Db, reqData.Division, reqData.SectionNumbers)
	if errors.Is(err, store.ErrUnknownDivision) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown division!", nil)
	}
	if err != nil {
		log.Printf("Error updating bar relevance for %s: %v", reqData.Division, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update bar relevance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bar relevance updated.", result)
}

// RunScrape scrapes a division index page and stores the parsed sections.
func RunScrape(scr *scraper.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedScrape").(*adminValidator.ScrapePayload)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		stats, err := scr.ScrapeDivision(c.Context(), reqData.URL)
		if err != nil {
			log.Printf("Error scraping %s: %v", reqData.URL, err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to scrape division page!", stats)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Scrape completed.", stats)
	}
}

// SetSubscriptionTier updates a user's subscription tier.
func SetSubscriptionTier(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetID, ok := c.Locals("targetUserId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData, ok := c.Locals("validatedSubscription").(*adminValidator.SubscriptionPayload)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		user, err := store.UserByID(database.Database.Db, targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		if err != nil {
			log.Printf("Error loading user %d: %v", targetID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update subscription!", nil)
		}

		previousTier := user.SubscriptionTier
		if err := store.SetSubscriptionTier(database.Database.Db, user.ID, reqData.Tier); err != nil {
			log.Printf("Error updating subscription for user %d: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update subscription!", nil)
		}
		user.SubscriptionTier = reqData.Tier

		if reqData.Tier == models.TierPremium && previousTier != models.TierPremium {
			utils.SendSubscriptionUpgradedEmail(cfg, user.Email, user.Name)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription tier updated.", user)
	}
}
