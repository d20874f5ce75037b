package quizController

import (
	"errors"
	"log"

	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/middleware"
	"github.com/shuddl/quizlaw/models"
	"github.com/shuddl/quizlaw/store"
	quizValidator "github.com/shuddl/quizlaw/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetQuiz serves a set of questions for a division.
func GetQuiz(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuiz").(*quizValidator.QuizPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	rows, err := store.SelectQuiz(database.Database.Db, store.QuizFilter{
		Mode:     reqData.Mode,
		Division: reqData.Division,
		Topic:    reqData.Topic,
		Count:    *reqData.NumQuestions,
	})
	if errors.Is(err, store.ErrUnknownDivision) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown division!", nil)
	}
	if err != nil {
		log.Printf("Error selecting quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz questions fetched.", fiber.Map{
		"questions": rows,
	})
}

// CheckAnswer grades a submitted answer and records the attempt. Anonymous
// callers are graded too; their attempts are stored without a user.
func CheckAnswer(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCheckAnswer").(*quizValidator.CheckAnswerPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	caller := middleware.CallerFrom(c)

	question, err := store.QuestionByID(database.Database.Db, reqData.QuestionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	if err != nil {
		log.Printf("Error loading question %d: %v", reqData.QuestionID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load question!", nil)
	}

	isCorrect := reqData.SelectedAnswer == question.CorrectAnswer

	attempt := models.QuizAttempt{
		UserID:         caller.UserID,
		QuestionID:     question.ID,
		SelectedAnswer: reqData.SelectedAnswer,
		IsCorrect:      isCorrect,
	}
	if err := store.InsertAttempt(database.Database.Db, &attempt); err != nil {
		log.Printf("Error recording quiz attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	data := fiber.Map{
		"is_correct":     isCorrect,
		"correct_answer": question.CorrectAnswer,
	}
	// Explanations are a Premium feature.
	if caller.IsPremium() {
		data["explanation"] = question.Explanation
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer checked.", data)
}

// ListDivisions serves the division names available for quizzes.
func ListDivisions(c *fiber.Ctx) error {
	divisions, err := store.Divisions(database.Database.Db)
	if err != nil {
		log.Printf("Error listing divisions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch divisions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Divisions fetched.", fiber.Map{
		"divisions": divisions,
	})
}
