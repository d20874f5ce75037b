package userValidator

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shuddl/quizlaw/analytics"
	"github.com/shuddl/quizlaw/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfilePayload is the request body accepted by the profile update
// route. Nil fields are left untouched.
type UpdateProfilePayload struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	LearningGoal *string `json:"learning_goal"`
}

// UpdateProfile validates the request body for the profile update route
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfilePayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Email != nil && !isValidEmail(*reqData.Email) {
			errors["email"] = "Invalid email format!"
		}

		if reqData.Password != nil && len(*reqData.Password) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		// An empty learning goal clears the field.
		if reqData.LearningGoal != nil && *reqData.LearningGoal != "" && !analytics.ValidLearningGoal(*reqData.LearningGoal) {
			errors["learning_goal"] = "Invalid learning goal. Valid options are: " + strings.Join(goalKeys(), ", ") + "."
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateProfile", reqData)

		return c.Next()
	}
}

func goalKeys() []string {
	keys := make([]string, 0, len(analytics.LearningGoals))
	for key := range analytics.LearningGoals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// isValidEmail checks the email format
func isValidEmail(email string) bool {
	regex := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	return regexp.MustCompile(regex).MatchString(email)
}
