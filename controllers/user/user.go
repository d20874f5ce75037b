package userController

import (
	"errors"
	"log"
	"sort"

	"github.com/shuddl/quizlaw/analytics"
	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/middleware"
	"github.com/shuddl/quizlaw/store"
	userValidator "github.com/shuddl/quizlaw/validators/user"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Me serves the authenticated user's profile.
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	user, err := store.UserByID(database.Database.Db, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched.", user)
}

// UpdateMe applies partial profile updates for the authenticated user.
func UpdateMe(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		reqData, ok := c.Locals("validatedUpdateProfile").(*userValidator.UpdateProfilePayload)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		user, err := store.UserByID(database.Database.Db, userID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		if reqData.Name != nil {
			user.Name = *reqData.Name
		}

		if reqData.Email != nil && *reqData.Email != user.Email {
			if _, err := store.UserByEmail(database.Database.Db, *reqData.Email); err == nil {
				return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already in use!", nil)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Error checking email availability: %v", err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
			}
			user.Email = *reqData.Email
		}

		if reqData.Password != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*reqData.Password), cfg.SaltRound)
			if err != nil {
				log.Printf("Error hashing password: %v", err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
			}
			user.Password = string(hashedPassword)
		}

		if reqData.LearningGoal != nil {
			user.LearningGoal = *reqData.LearningGoal
		}

		if err := store.SaveUser(database.Database.Db, &user); err != nil {
			log.Printf("Error updating user %d: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
	}
}

// LearningSummary serves aggregated quiz stats with AI feedback and study
// suggestions for the authenticated user.
func LearningSummary(cfg *config.Config, client analytics.TextClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		user, err := store.UserByID(database.Database.Db, userID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		stats, err := analytics.CalculateUserStats(database.Database.Db, user.ID)
		if err != nil {
			log.Printf("Error calculating stats for user %d: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build learning summary!", nil)
		}

		feedback := analytics.GenerateFeedback(c.Context(), client, cfg.FeedbackModel, stats)
		suggestions := analytics.SuggestNextSteps(c.Context(), database.Database.Db, client, cfg.FeedbackModel, user, stats)

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning summary generated.", fiber.Map{
			"stats":       stats,
			"ai_feedback": feedback,
			"suggestions": suggestions,
		})
	}
}

// LearningGoals serves the selectable learning goals.
func LearningGoals(c *fiber.Ctx) error {
	keys := make([]string, 0, len(analytics.LearningGoals))
	for key := range analytics.LearningGoals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	goals := make([]fiber.Map, 0, len(keys))
	for _, key := range keys {
		goals = append(goals, fiber.Map{
			"key":         key,
			"description": analytics.LearningGoals[key],
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning goals fetched.", fiber.Map{
		"learning_goals": goals,
	})
}
