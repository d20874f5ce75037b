package authController

import (
	"errors"
	"log"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/middleware"
	"github.com/shuddl/quizlaw/models"
	"github.com/shuddl/quizlaw/store"
	"github.com/shuddl/quizlaw/utils"
	authValidator "github.com/shuddl/quizlaw/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register creates a new user account on the free tier.
func Register(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterPayload)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// Check if email already exists
		if _, err := store.UserByEmail(database.Database.Db, reqData.Email); err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error checking existing email: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
		}

		// Hash Password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), cfg.SaltRound)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		newUser := models.User{
			Name:             reqData.Name,
			Email:            reqData.Email,
			Password:         string(hashedPassword),
			Role:             models.RoleUser,
			SubscriptionTier: models.TierFree,
		}

		if err := store.CreateUser(database.Database.Db, &newUser); err != nil {
			log.Printf("Error saving user to database: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
		}

		utils.SendWelcomeEmail(cfg, newUser.Email, newUser.Name)

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
	}
}

// Login authenticates a user and issues a JWT.
func Login(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginPayload)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		user, err := store.UserByEmail(database.Database.Db, reqData.Email)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
		}

		token, err := middleware.GenerateJWT(cfg, user.ID, user.Email, user.Role, user.SubscriptionTier)
		if err != nil {
			log.Printf("Error generating token: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
			"user":  user,
			"token": token,
		})
	}
}
