package quizRoutes

import (
	"github.com/shuddl/quizlaw/config"
	quizController "github.com/shuddl/quizlaw/controllers/quiz"
	"github.com/shuddl/quizlaw/middleware"
	quizValidator "github.com/shuddl/quizlaw/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz selection and answer checking routes. Both
// are open to anonymous callers; a valid token only unlocks Premium
// explanations on answer checks.
func SetupQuizRoutes(app *fiber.App, cfg *config.Config) {
	quizGroup := app.Group("/api/v1/quiz")

	quizGroup.Post("/", quizValidator.GetQuiz(), quizController.GetQuiz)
	quizGroup.Post("/check_answer", middleware.OptionalJWT(cfg), quizValidator.CheckAnswer(), quizController.CheckAnswer)
	quizGroup.Get("/divisions", quizController.ListDivisions)
}
