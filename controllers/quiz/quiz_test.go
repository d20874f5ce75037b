package quizController

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/middleware"
	"github.com/shuddl/quizlaw/models"
	quizValidator "github.com/shuddl/quizlaw/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func setupTestApp(t *testing.T) (*fiber.App, *config.Config, *gorm.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "quiz_controller_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.LegalSection{},
		&models.MCQQuestion{},
		&models.QuizAttempt{},
		&models.GenerationRun{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	database.Database = database.DbInstance{Db: db}

	cfg := &config.Config{JWTKey: "test-signing-key"}

	// Same chains the quiz router wires
	app := fiber.New()
	quiz := app.Group("/api/v1/quiz")
	quiz.Post("/", quizValidator.GetQuiz(), GetQuiz)
	quiz.Post("/check_answer", middleware.OptionalJWT(cfg), quizValidator.CheckAnswer(), CheckAnswer)
	quiz.Get("/divisions", ListDivisions)

	return app, cfg, db
}

func seedSection(t *testing.T, db *gorm.DB, division, number string, barRelevant bool) models.LegalSection {
	t.Helper()

	section := models.LegalSection{
		Division:      division,
		SectionNumber: number,
		SectionTitle:  "Section " + number,
		SectionText:   "Text of section " + number,
		SourceURL:     "https://law.example.com/" + division + "/section-" + number,
		IsBarRelevant: barRelevant,
	}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("Failed to seed section: %v", err)
	}
	return section
}

func seedQuestion(t *testing.T, db *gorm.DB, sectionID uint, text string) models.MCQQuestion {
	t.Helper()

	question := models.MCQQuestion{
		LegalSectionID: sectionID,
		QuestionText:   text,
		Options:        []byte(`{"A":"Notice","B":"Consent","C":"Filing","D":"Payment"}`),
		CorrectAnswer:  "A",
		Explanation:    "The section requires notice before termination.",
		IsValidated:    true,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("Failed to seed question: %v", err)
	}
	return question
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*apiResponse, string, int) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	parsed := new(apiResponse)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, parsed); err != nil {
			t.Fatalf("Failed to decode response %q: %v", raw, err)
		}
	}
	return parsed, string(raw), resp.StatusCode
}

func TestGetQuizEndpoint(t *testing.T) {
	app, _, db := setupTestApp(t)

	section := seedSection(t, db, "Contracts", "1", false)
	seedQuestion(t, db, section.ID, "Q1")
	seedQuestion(t, db, section.ID, "Q2")

	parsed, raw, status := doJSON(t, app, "POST", "/api/v1/quiz", `{"mode":"sequential","division":"Contracts","num_questions":2}`, "")
	if status != 200 {
		t.Fatalf("Expected 200, got %d: %s", status, raw)
	}

	questions, ok := parsed.Data["questions"].([]interface{})
	if !ok {
		t.Fatalf("Expected questions array, got %v", parsed.Data)
	}
	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}

	first, ok := questions[0].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected question object, got %T", questions[0])
	}
	for _, key := range []string{"id", "question_text", "options", "source_url", "section_number"} {
		if _, ok := first[key]; !ok {
			t.Errorf("Expected question to include %q, got %v", key, first)
		}
	}

	// The answer key must never ship with the quiz
	if strings.Contains(raw, "correct_answer") {
		t.Errorf("Quiz response leaked the correct answer: %s", raw)
	}
	if strings.Contains(raw, "requires notice before termination") {
		t.Errorf("Quiz response leaked the explanation: %s", raw)
	}
}

func TestGetQuizUnknownDivision(t *testing.T) {
	app, _, _ := setupTestApp(t)

	parsed, _, status := doJSON(t, app, "POST", "/api/v1/quiz", `{"mode":"random","division":"Nonexistent"}`, "")
	if status != 400 {
		t.Fatalf("Expected 400, got %d", status)
	}
	if parsed.Message != "Unknown division!" {
		t.Errorf("Unexpected message: %q", parsed.Message)
	}
}

func TestCheckAnswerAnonymous(t *testing.T) {
	app, _, db := setupTestApp(t)

	section := seedSection(t, db, "Contracts", "1", false)
	question := seedQuestion(t, db, section.ID, "Q1")

	parsed, _, status := doJSON(t, app, "POST", "/api/v1/quiz/check_answer",
		`{"question_id":`+jsonID(question.ID)+`,"selected_answer":"A"}`, "")
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if parsed.Data["is_correct"] != true {
		t.Errorf("Expected correct answer, got %v", parsed.Data["is_correct"])
	}
	if parsed.Data["correct_answer"] != "A" {
		t.Errorf("Expected correct answer A, got %v", parsed.Data["correct_answer"])
	}
	if _, ok := parsed.Data["explanation"]; ok {
		t.Errorf("Expected no explanation for anonymous caller")
	}

	var attempts []models.QuizAttempt
	db.Find(&attempts)
	if len(attempts) != 1 {
		t.Fatalf("Expected 1 recorded attempt, got %d", len(attempts))
	}
	if attempts[0].UserID != nil {
		t.Errorf("Expected anonymous attempt without user id")
	}
	if !attempts[0].IsCorrect {
		t.Errorf("Expected attempt marked correct")
	}
}

func TestCheckAnswerPremiumSeesExplanation(t *testing.T) {
	app, cfg, db := setupTestApp(t)

	section := seedSection(t, db, "Contracts", "1", false)
	question := seedQuestion(t, db, section.ID, "Q1")

	user := models.User{Name: "Pat", Email: "pat@example.com", Password: "x", Role: models.RoleUser, SubscriptionTier: models.TierPremium}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	token, err := middleware.GenerateJWT(cfg, user.ID, user.Email, user.Role, user.SubscriptionTier)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	parsed, _, status := doJSON(t, app, "POST", "/api/v1/quiz/check_answer",
		`{"question_id":`+jsonID(question.ID)+`,"selected_answer":"B"}`, token)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if parsed.Data["is_correct"] != false {
		t.Errorf("Expected incorrect answer, got %v", parsed.Data["is_correct"])
	}
	if parsed.Data["explanation"] != "The section requires notice before termination." {
		t.Errorf("Expected explanation for Premium caller, got %v", parsed.Data["explanation"])
	}

	var attempts []models.QuizAttempt
	db.Find(&attempts)
	if len(attempts) != 1 || attempts[0].UserID == nil || *attempts[0].UserID != user.ID {
		t.Errorf("Expected attempt recorded for user %d, got %+v", user.ID, attempts)
	}
}

func TestCheckAnswerFreeUserNoExplanation(t *testing.T) {
	app, cfg, db := setupTestApp(t)

	section := seedSection(t, db, "Contracts", "1", false)
	question := seedQuestion(t, db, section.ID, "Q1")

	user := models.User{Name: "Sam", Email: "sam@example.com", Password: "x", Role: models.RoleUser, SubscriptionTier: models.TierFree}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	token, err := middleware.GenerateJWT(cfg, user.ID, user.Email, user.Role, user.SubscriptionTier)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	parsed, _, status := doJSON(t, app, "POST", "/api/v1/quiz/check_answer",
		`{"question_id":`+jsonID(question.ID)+`,"selected_answer":"A"}`, token)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if _, ok := parsed.Data["explanation"]; ok {
		t.Errorf("Expected no explanation for Free tier caller")
	}
}

func TestCheckAnswerUnknownQuestion(t *testing.T) {
	app, _, _ := setupTestApp(t)

	parsed, _, status := doJSON(t, app, "POST", "/api/v1/quiz/check_answer", `{"question_id":999,"selected_answer":"A"}`, "")
	if status != 404 {
		t.Fatalf("Expected 404, got %d", status)
	}
	if parsed.Message != "Question not found!" {
		t.Errorf("Unexpected message: %q", parsed.Message)
	}
}

func TestListDivisions(t *testing.T) {
	app, _, db := setupTestApp(t)

	seedSection(t, db, "Torts", "1", false)
	seedSection(t, db, "Contracts", "1", false)

	parsed, _, status := doJSON(t, app, "GET", "/api/v1/quiz/divisions", "", "")
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}

	divisions, ok := parsed.Data["divisions"].([]interface{})
	if !ok {
		t.Fatalf("Expected divisions array, got %v", parsed.Data)
	}
	if len(divisions) != 2 {
		t.Fatalf("Expected 2 divisions, got %d", len(divisions))
	}
	if divisions[0] != "Contracts" || divisions[1] != "Torts" {
		t.Errorf("Expected sorted divisions, got %v", divisions)
	}
}

func jsonID(id uint) string {
	encoded, _ := json.Marshal(id)
	return string(encoded)
}
