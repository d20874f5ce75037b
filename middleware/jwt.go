package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Caller describes the authenticated identity of a request. The zero value
// is an anonymous caller.
type Caller struct {
	UserID *uint
	Email  string
	Role   string
	Tier   string
}

// Authenticated reports whether the request carried a valid token.
func (caller Caller) Authenticated() bool {
	return caller.UserID != nil
}

// IsPremium reports whether the caller is on the Premium subscription tier.
func (caller Caller) IsPremium() bool {
	return caller.Tier == models.TierPremium
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (caller Caller) IsAdmin() bool {
	return caller.Role == models.RoleAdmin
}

// CallerFrom returns the caller stored by JWTMiddleware or OptionalJWT.
// Requests that never passed through either middleware are anonymous.
func CallerFrom(c *fiber.Ctx) Caller {
	caller, ok := c.Locals("caller").(Caller)
	if !ok {
		return Caller{}
	}
	return caller
}

// GenerateJWT creates a JWT token for authenticated users
func GenerateJWT(cfg *config.Config, userID uint, email, role, tier string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"role":   role,
		"tier":   tier,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(24 * time.Hour).Unix(), // Token expires in 24 hours
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTKey))
}

// parseCaller validates a bearer token string and extracts the caller identity.
func parseCaller(cfg *config.Config, tokenString string) (Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return Caller{}, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, fmt.Errorf("invalid token payload")
	}

	rawUserID, ok := claims["userId"].(float64)
	if !ok {
		return Caller{}, fmt.Errorf("invalid token payload")
	}
	userID := uint(rawUserID)

	caller := Caller{UserID: &userID}
	if email, ok := claims["email"].(string); ok {
		caller.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		caller.Role = role
	}
	if tier, ok := claims["tier"].(string); ok {
		caller.Tier = tier
	}

	return caller, nil
}

// JWTMiddleware protects routes by validating the Authorization header.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
		}

		caller, err := parseCaller(cfg, tokenString)
		if err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
		}

		c.Locals("caller", caller)
		c.Locals("userId", *caller.UserID)

		return c.Next()
	}
}

// OptionalJWT resolves the caller when a valid token is present but lets
// anonymous requests through. Malformed tokens are treated as anonymous.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals("caller", Caller{})
			return c.Next()
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		caller, err := parseCaller(cfg, tokenString)
		if err != nil {
			c.Locals("caller", Caller{})
			return c.Next()
		}

		c.Locals("caller", caller)
		c.Locals("userId", *caller.UserID)

		return c.Next()
	}
}

// AdminOnly rejects callers without the ADMIN role. It must run after
// JWTMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFrom(c)
		if !caller.IsAdmin() {
			return JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
		}
		return c.Next()
	}
}

// JsonResponse sends a standardized JSON response
func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// ValidationErrorResponse sends a validation error response
func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"status":  false,
		"message": "Validation failed!",
		"errors":  errors,
	})
}
