package adminValidator

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shuddl/quizlaw/middleware"
	"github.com/shuddl/quizlaw/models"

	"github.com/gofiber/fiber/v2"
)

const (
	minPerSection     = 1
	maxPerSection     = 5
	defaultPerSection = 2
)

// GeneratePayload is the request body accepted by the MCQ generation route.
type GeneratePayload struct {
	Division      string `json:"division"`
	NumPerSection *int   `json:"num_per_section"`
}

// BarRelevancePayload is the request body accepted by the bar relevance
// update route.
type BarRelevancePayload struct {
	Division       string   `json:"division"`
	SectionNumbers []string `json:"section_numbers"`
}

// ScrapePayload is the request body accepted by the scrape route.
type ScrapePayload struct {
	URL string `json:"url"`
}

// SubscriptionPayload is the request body accepted by the subscription tier
// route.
type SubscriptionPayload struct {
	Tier string `json:"tier"`
}

// Generate validates the request body for the MCQ generation route
func Generate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GeneratePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Division = strings.TrimSpace(reqData.Division)
		if reqData.Division == "" {
			errors["division"] = "Division is required!"
		}

		if reqData.NumPerSection == nil {
			count := defaultPerSection
			reqData.NumPerSection = &count
		} else if *reqData.NumPerSection < minPerSection || *reqData.NumPerSection > maxPerSection {
			errors["num_per_section"] = "Number of questions per section must be between 1 and 5!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerate", reqData)

		return c.Next()
	}
}

// BarRelevance validates the request body for the bar relevance route.
// An empty section list is allowed and clears the whole division.
func BarRelevance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BarRelevancePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Division = strings.TrimSpace(reqData.Division)
		if reqData.Division == "" {
			errors["division"] = "Division is required!"
		}

		numbers := make([]string, 0, len(reqData.SectionNumbers))
		for _, number := range reqData.SectionNumbers {
			if trimmed := strings.TrimSpace(number); trimmed != "" {
				numbers = append(numbers, trimmed)
			}
		}
		reqData.SectionNumbers = numbers

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBarRelevance", reqData)

		return c.Next()
	}
}

// Scrape validates the request body for the scrape route
func Scrape() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScrapePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.URL = strings.TrimSpace(reqData.URL)
		if reqData.URL == "" {
			errors["url"] = "URL is required!"
		} else if parsed, err := url.Parse(reqData.URL); err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			errors["url"] = "A valid http or https URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedScrape", reqData)

		return c.Next()
	}
}

// SubscriptionTier validates the user id param and body for the subscription
// tier route
func SubscriptionTier() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubscriptionPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		userID, err := strconv.Atoi(c.Params("id"))
		if err != nil || userID <= 0 {
			errors["id"] = "User ID must be a positive number!"
		}

		if reqData.Tier != models.TierFree && reqData.Tier != models.TierPremium {
			errors["tier"] = "Tier must be 'Free' or 'Premium'!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("targetUserId", uint(userID))
		c.Locals("validatedSubscription", reqData)

		return c.Next()
	}
}
