package quizValidator

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type validationResponse struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*validationResponse, int) {
	t.Helper()

	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	parsed := new(validationResponse)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, parsed); err != nil {
			t.Fatalf("Failed to decode response %q: %v", raw, err)
		}
	}
	return parsed, resp.StatusCode
}

func TestGetQuizValidator(t *testing.T) {
	var captured *QuizPayload
	app := fiber.New()
	app.Post("/quiz", GetQuiz(), func(c *fiber.Ctx) error {
		captured = c.Locals("validatedQuiz").(*QuizPayload)
		return c.SendStatus(fiber.StatusOK)
	})

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		wantErrKey string
	}{
		{"valid random", `{"mode":"random","division":"Contracts"}`, 200, ""},
		{"valid sequential", `{"mode":"sequential","division":"Contracts","num_questions":1}`, 200, ""},
		{"valid law student", `{"mode":"law_student","division":"Contracts","num_questions":100}`, 200, ""},
		{"mode is case folded", `{"mode":" RANDOM ","division":"Contracts"}`, 200, ""},
		{"missing mode", `{"division":"Contracts"}`, 422, "mode"},
		{"unknown mode", `{"mode":"alphabetical","division":"Contracts"}`, 422, "mode"},
		{"missing division", `{"mode":"random"}`, 422, "division"},
		{"blank division", `{"mode":"random","division":"   "}`, 422, "division"},
		{"zero questions", `{"mode":"random","division":"Contracts","num_questions":0}`, 422, "num_questions"},
		{"too many questions", `{"mode":"random","division":"Contracts","num_questions":101}`, 422, "num_questions"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			captured = nil
			parsed, status := postJSON(t, app, "/quiz", tc.body)

			if status != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, status)
			}
			if tc.wantErrKey != "" {
				if parsed.Message != "Validation failed!" {
					t.Errorf("Expected validation failure message, got %q", parsed.Message)
				}
				if _, ok := parsed.Errors[tc.wantErrKey]; !ok {
					t.Errorf("Expected error for %q, got %v", tc.wantErrKey, parsed.Errors)
				}
				return
			}
			if captured == nil {
				t.Fatalf("Expected validated payload to reach the handler")
			}
		})
	}
}

func TestGetQuizValidatorDefaultsCount(t *testing.T) {
	var captured *QuizPayload
	app := fiber.New()
	app.Post("/quiz", GetQuiz(), func(c *fiber.Ctx) error {
		captured = c.Locals("validatedQuiz").(*QuizPayload)
		return c.SendStatus(fiber.StatusOK)
	})

	_, status := postJSON(t, app, "/quiz", `{"mode":"RANDOM","division":" Contracts ","topic":" formation "}`)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if captured.NumQuestions == nil || *captured.NumQuestions != 10 {
		t.Errorf("Expected default of 10 questions, got %v", captured.NumQuestions)
	}
	if captured.Mode != "random" {
		t.Errorf("Expected normalized mode, got %q", captured.Mode)
	}
	if captured.Division != "Contracts" {
		t.Errorf("Expected trimmed division, got %q", captured.Division)
	}
	if captured.Topic != "formation" {
		t.Errorf("Expected trimmed topic, got %q", captured.Topic)
	}
}

func TestCheckAnswerValidator(t *testing.T) {
	app := fiber.New()
	app.Post("/check", CheckAnswer(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		wantErrKey string
	}{
		{"valid", `{"question_id":1,"selected_answer":"A"}`, 200, ""},
		{"valid label E", `{"question_id":1,"selected_answer":"E"}`, 200, ""},
		{"missing question id", `{"selected_answer":"A"}`, 422, "question_id"},
		{"missing answer", `{"question_id":1}`, 422, "selected_answer"},
		{"lowercase answer", `{"question_id":1,"selected_answer":"a"}`, 422, "selected_answer"},
		{"out of range label", `{"question_id":1,"selected_answer":"F"}`, 422, "selected_answer"},
		{"multi character answer", `{"question_id":1,"selected_answer":"AB"}`, 422, "selected_answer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, status := postJSON(t, app, "/check", tc.body)

			if status != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, status)
			}
			if tc.wantErrKey != "" {
				if _, ok := parsed.Errors[tc.wantErrKey]; !ok {
					t.Errorf("Expected error for %q, got %v", tc.wantErrKey, parsed.Errors)
				}
			}
		})
	}
}
