package quizValidator

import (
	"regexp"
	"strings"

	"github.com/shuddl/quizlaw/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	minQuestions     = 1
	maxQuestions     = 100
	defaultQuestions = 10
)

var answerLabelPattern = regexp.MustCompile(`^[A-E]$`)

// QuizPayload is the request body accepted by the quiz selection route.
type QuizPayload struct {
	Mode         string `json:"mode"`
	Division     string `json:"division"`
	NumQuestions *int   `json:"num_questions"`
	Topic        string `json:"topic"`
}

// CheckAnswerPayload is the request body accepted by the answer check route.
type CheckAnswerPayload struct {
	QuestionID     uint   `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

// GetQuiz validates the request body for the quiz selection route
func GetQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Mode = strings.ToLower(strings.TrimSpace(reqData.Mode))
		switch reqData.Mode {
		case "random", "sequential", "law_student":
		default:
			errors["mode"] = "Invalid mode. Must be 'random', 'sequential', or 'law_student'."
		}

		reqData.Division = strings.TrimSpace(reqData.Division)
		if reqData.Division == "" {
			errors["division"] = "Division is required!"
		}

		if reqData.NumQuestions == nil {
			count := defaultQuestions
			reqData.NumQuestions = &count
		} else if *reqData.NumQuestions < minQuestions || *reqData.NumQuestions > maxQuestions {
			errors["num_questions"] = "Number of questions must be between 1 and 100!"
		}

		reqData.Topic = strings.TrimSpace(reqData.Topic)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)

		return c.Next()
	}
}

// CheckAnswer validates the request body for the answer check route
func CheckAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CheckAnswerPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuestionID == 0 {
			errors["question_id"] = "Question ID is required!"
		}

		// Answers are matched by exact label, so no case folding here.
		if reqData.SelectedAnswer == "" {
			errors["selected_answer"] = "Selected answer is required!"
		} else if !answerLabelPattern.MatchString(reqData.SelectedAnswer) {
			errors["selected_answer"] = "Selected answer must be a single label between A and E!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCheckAnswer", reqData)

		return c.Next()
	}
}
