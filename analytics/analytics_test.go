package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shuddl/quizlaw/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubTextClient struct {
	completeReply string
	completeErr   error
	jsonReply     string
	jsonErr       error
	completeCalls int
	jsonCalls     int
}

func (s *stubTextClient) Complete(_ context.Context, _ string, _ string, _ string, _ int) (string, error) {
	s.completeCalls++
	return s.completeReply, s.completeErr
}

func (s *stubTextClient) CompleteJSON(_ context.Context, _ string, _ string, _ string) (string, error) {
	s.jsonCalls++
	return s.jsonReply, s.jsonErr
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "analytics_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.LegalSection{}, &models.MCQQuestion{}, &models.QuizAttempt{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedQuestionInDivision(t *testing.T, db *gorm.DB, division, number, topic string, barRelevant bool) models.MCQQuestion {
	t.Helper()

	section := models.LegalSection{
		Division:      division,
		SectionNumber: number,
		SectionTitle:  "Section " + number,
		SectionText:   "Text of section " + number,
		SourceURL:     "https://law.example.com/" + division + "/" + number,
		IsBarRelevant: barRelevant,
	}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("Failed to seed section: %v", err)
	}

	question := models.MCQQuestion{
		LegalSectionID: section.ID,
		QuestionText:   "Question on section " + number,
		Options:        []byte(`{"A":"a","B":"b","C":"c","D":"d"}`),
		CorrectAnswer:  "A",
		Explanation:    "Because the section says so.",
		TopicTag:       topic,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("Failed to seed question: %v", err)
	}
	return question
}

func seedAttempts(t *testing.T, db *gorm.DB, userID uint, questionID uint, correct, incorrect int) {
	t.Helper()

	for i := 0; i < correct+incorrect; i++ {
		attempt := models.QuizAttempt{
			UserID:         &userID,
			QuestionID:     questionID,
			SelectedAnswer: "A",
			IsCorrect:      i < correct,
		}
		if err := db.Create(&attempt).Error; err != nil {
			t.Fatalf("Failed to seed attempt: %v", err)
		}
	}
}

func TestCalculateUserStats(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	formation := seedQuestionInDivision(t, db, "Contracts", "1", "formation", false)
	untagged := seedQuestionInDivision(t, db, "Contracts", "2", "", false)
	negligence := seedQuestionInDivision(t, db, "Torts", "100", "negligence", false)

	seedAttempts(t, db, user.ID, formation.ID, 1, 2)
	seedAttempts(t, db, user.ID, untagged.ID, 1, 0)
	seedAttempts(t, db, user.ID, negligence.ID, 4, 0)

	stats, err := CalculateUserStats(db, user.ID)
	if err != nil {
		t.Fatalf("CalculateUserStats returned error: %v", err)
	}

	if stats.Overall.TotalQuestionsAnswered != 8 {
		t.Errorf("Expected 8 answered, got %d", stats.Overall.TotalQuestionsAnswered)
	}
	if stats.Overall.CorrectAnswers != 6 {
		t.Errorf("Expected 6 correct, got %d", stats.Overall.CorrectAnswers)
	}
	if stats.Overall.Accuracy != 75 {
		t.Errorf("Expected 75%% accuracy, got %.1f", stats.Overall.Accuracy)
	}

	contracts := stats.ByDivision["Contracts"]
	if contracts.TotalQuestions != 4 || contracts.CorrectAnswers != 2 || contracts.Accuracy != 50 {
		t.Errorf("Unexpected Contracts stats: %+v", contracts)
	}
	torts := stats.ByDivision["Torts"]
	if torts.TotalQuestions != 4 || torts.Accuracy != 100 {
		t.Errorf("Unexpected Torts stats: %+v", torts)
	}

	if len(stats.ByTopic) != 2 {
		t.Errorf("Expected 2 topics, untagged excluded, got %d", len(stats.ByTopic))
	}
	if stats.ByTopic["formation"].TotalQuestions != 3 {
		t.Errorf("Expected 3 formation attempts, got %d", stats.ByTopic["formation"].TotalQuestions)
	}

	if len(stats.WeakestDivisions) != 2 || stats.WeakestDivisions[0] != "Contracts" {
		t.Errorf("Expected Contracts as weakest division, got %v", stats.WeakestDivisions)
	}
	if len(stats.WeakestTopics) != 2 || stats.WeakestTopics[0] != "formation" {
		t.Errorf("Expected formation as weakest topic, got %v", stats.WeakestTopics)
	}

	if stats.AnsweredToday != 8 {
		t.Errorf("Expected 8 answered today, got %d", stats.AnsweredToday)
	}
	if stats.AnsweredThisWeek != 8 {
		t.Errorf("Expected 8 answered this week, got %d", stats.AnsweredThisWeek)
	}
}

func TestCalculateUserStatsNoAttempts(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Name: "Bob", Email: "bob@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	stats, err := CalculateUserStats(db, user.ID)
	if err != nil {
		t.Fatalf("CalculateUserStats returned error: %v", err)
	}
	if stats.Overall.TotalQuestionsAnswered != 0 || stats.Overall.Accuracy != 0 {
		t.Errorf("Expected zeroed overall stats, got %+v", stats.Overall)
	}
	if len(stats.ByDivision) != 0 || len(stats.ByTopic) != 0 {
		t.Errorf("Expected empty group maps")
	}
	if len(stats.WeakestDivisions) != 0 || len(stats.WeakestTopics) != 0 {
		t.Errorf("Expected empty weak spot lists")
	}
}

func TestWeakestGroupsOrdering(t *testing.T) {
	groups := map[string]GroupStats{
		"A": {TotalQuestions: 10, CorrectAnswers: 2, Accuracy: 20},
		"B": {TotalQuestions: 5, CorrectAnswers: 1, Accuracy: 20},
		"C": {TotalQuestions: 4, CorrectAnswers: 4, Accuracy: 100},
		"D": {TotalQuestions: 2, CorrectAnswers: 0, Accuracy: 0},
		"E": {TotalQuestions: 6, CorrectAnswers: 3, Accuracy: 50},
	}

	weakest := weakestGroups(groups)
	if len(weakest) != 3 {
		t.Fatalf("Expected top 3 weak groups, got %d", len(weakest))
	}
	// D is excluded below the attempt floor; B wins the 20% tie on fewer attempts
	expected := []string{"B", "A", "E"}
	for i := range expected {
		if weakest[i] != expected[i] {
			t.Errorf("Expected %s at position %d, got %s", expected[i], i, weakest[i])
		}
	}
}

func TestWeakestGroupsNameTieBreak(t *testing.T) {
	groups := map[string]GroupStats{
		"Y": {TotalQuestions: 4, CorrectAnswers: 2, Accuracy: 50},
		"X": {TotalQuestions: 4, CorrectAnswers: 2, Accuracy: 50},
	}

	weakest := weakestGroups(groups)
	if len(weakest) != 2 || weakest[0] != "X" || weakest[1] != "Y" {
		t.Errorf("Expected deterministic name ordering [X Y], got %v", weakest)
	}
}

func TestGenerateFeedback(t *testing.T) {
	activeStats := UserStats{Overall: OverallStats{TotalQuestionsAnswered: 5, CorrectAnswers: 3, Accuracy: 60}}

	t.Run("no activity", func(t *testing.T) {
		stub := &stubTextClient{completeReply: "unused"}
		feedback := GenerateFeedback(context.Background(), stub, "test-model", UserStats{})
		if feedback != NoActivityFeedback {
			t.Errorf("Expected no-activity feedback, got %q", feedback)
		}
		if stub.completeCalls != 0 {
			t.Errorf("Expected no completion call, got %d", stub.completeCalls)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		feedback := GenerateFeedback(context.Background(), nil, "test-model", activeStats)
		if feedback != FallbackFeedback {
			t.Errorf("Expected fallback feedback, got %q", feedback)
		}
	})

	t.Run("client error", func(t *testing.T) {
		stub := &stubTextClient{completeErr: errors.New("api down")}
		feedback := GenerateFeedback(context.Background(), stub, "test-model", activeStats)
		if feedback != FallbackFeedback {
			t.Errorf("Expected fallback feedback, got %q", feedback)
		}
	})

	t.Run("blank reply", func(t *testing.T) {
		stub := &stubTextClient{completeReply: "   "}
		feedback := GenerateFeedback(context.Background(), stub, "test-model", activeStats)
		if feedback != FallbackFeedback {
			t.Errorf("Expected fallback feedback, got %q", feedback)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubTextClient{completeReply: "  Strong work on Torts.  "}
		feedback := GenerateFeedback(context.Background(), stub, "test-model", activeStats)
		if feedback != "Strong work on Torts." {
			t.Errorf("Expected trimmed model feedback, got %q", feedback)
		}
		if stub.completeCalls != 1 {
			t.Errorf("Expected 1 completion call, got %d", stub.completeCalls)
		}
	})
}

func TestBuildFeedbackPrompt(t *testing.T) {
	stats := UserStats{
		Overall: OverallStats{TotalQuestionsAnswered: 4, CorrectAnswers: 2, Accuracy: 50},
		ByDivision: map[string]GroupStats{
			"Contracts": {TotalQuestions: 4, CorrectAnswers: 2, Accuracy: 50},
		},
		WeakestDivisions: []string{"Contracts"},
	}

	prompt := buildFeedbackPrompt(stats)
	for _, expected := range []string{
		"Questions answered: 4",
		"- Contracts: 50.0% (2/4)",
		"Weakest Divisions: Contracts",
		"2-paragraph feedback",
	} {
		if !strings.Contains(prompt, expected) {
			t.Errorf("Expected prompt to contain %q", expected)
		}
	}
}

func TestValidLearningGoal(t *testing.T) {
	for goal := range LearningGoals {
		if !ValidLearningGoal(goal) {
			t.Errorf("Expected %s to be valid", goal)
		}
	}
	if ValidLearningGoal("become_a_judge") {
		t.Errorf("Expected unknown goal to be invalid")
	}
}

func TestSuggestNextStepsWeakSpotsFirst(t *testing.T) {
	db := setupTestDB(t)
	stub := &stubTextClient{jsonReply: `{"suggestions":[]}`}

	stats := UserStats{
		WeakestTopics:    []string{"formation", "consideration", "remedies"},
		WeakestDivisions: []string{"Contracts", "Torts"},
	}

	suggestions := SuggestNextSteps(context.Background(), db, stub, "test-model", models.User{}, stats)
	if len(suggestions) != 5 {
		t.Fatalf("Expected 5 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Type != "topic" || suggestions[0].Name != "formation" {
		t.Errorf("Expected weakest topic first, got %+v", suggestions[0])
	}
	if suggestions[1].Type != "topic" || suggestions[1].Name != "consideration" {
		t.Errorf("Expected second topic capped at two, got %+v", suggestions[1])
	}
	if suggestions[2].Type != "division" || suggestions[2].Name != "Contracts" {
		t.Errorf("Expected weakest division third, got %+v", suggestions[2])
	}
	if suggestions[3].Type != "strategy" || suggestions[4].Type != "strategy" {
		t.Errorf("Expected general strategies to fill the rest, got %+v", suggestions[3:])
	}
	if stub.jsonCalls != 0 {
		t.Errorf("Expected no AI top-up when personalized suggestions suffice, got %d calls", stub.jsonCalls)
	}
}

func TestSuggestNextStepsBarExamGoal(t *testing.T) {
	db := setupTestDB(t)
	seedQuestionInDivision(t, db, "Evidence", "352", "", true)
	seedQuestionInDivision(t, db, "Contracts", "1550", "", true)

	user := models.User{LearningGoal: GoalBarExam}
	suggestions := SuggestNextSteps(context.Background(), db, nil, "test-model", user, UserStats{})

	if len(suggestions) != 5 {
		t.Fatalf("Expected 5 suggestions, got %d", len(suggestions))
	}
	barSections := 0
	for _, suggestion := range suggestions {
		if suggestion.Type == "bar_section" {
			barSections++
			if !strings.Contains(suggestion.Name, " - ") {
				t.Errorf("Expected 'Division - Number' name, got %q", suggestion.Name)
			}
		}
	}
	if barSections != 2 {
		t.Errorf("Expected 2 bar section picks, got %d", barSections)
	}
}

func TestSuggestNextStepsPracticeReadiness(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{LearningGoal: GoalPracticeReadiness}
	suggestions := SuggestNextSteps(context.Background(), db, nil, "test-model", user, UserStats{})

	if len(suggestions) != 5 {
		t.Fatalf("Expected 5 suggestions, got %d", len(suggestions))
	}
	for i, expected := range practiceTopics {
		if suggestions[i].Type != "practice_topic" || suggestions[i].Name != expected {
			t.Errorf("Expected practice topic %q at position %d, got %+v", expected, i, suggestions[i])
		}
	}
}

func TestSuggestNextStepsAITopUp(t *testing.T) {
	db := setupTestDB(t)
	stub := &stubTextClient{jsonReply: `{"suggestions":[{"type":"topic","name":"Remedies","reason":"Your accuracy suggests a gap."},{"type":"strategy","name":"Timed Practice","reason":"duplicate of a general strategy"}]}`}

	suggestions := SuggestNextSteps(context.Background(), db, stub, "test-model", models.User{}, UserStats{})

	if stub.jsonCalls != 1 {
		t.Fatalf("Expected 1 AI call, got %d", stub.jsonCalls)
	}
	if suggestions[0].Name != "Remedies" {
		t.Errorf("Expected AI suggestion first, got %+v", suggestions[0])
	}

	timedPractice := 0
	for _, suggestion := range suggestions {
		if suggestion.Name == "Timed Practice" {
			timedPractice++
		}
	}
	if timedPractice != 1 {
		t.Errorf("Expected Timed Practice to appear once, got %d", timedPractice)
	}
}

func TestSuggestNextStepsAIFailure(t *testing.T) {
	db := setupTestDB(t)
	stub := &stubTextClient{jsonErr: errors.New("api down")}

	suggestions := SuggestNextSteps(context.Background(), db, stub, "test-model", models.User{}, UserStats{})

	if len(suggestions) != len(generalSuggestions) {
		t.Fatalf("Expected general strategies only, got %d suggestions", len(suggestions))
	}
	for _, suggestion := range suggestions {
		if suggestion.Type != "strategy" {
			t.Errorf("Expected only strategy suggestions, got %+v", suggestion)
		}
	}
}

func TestSuggestNextStepsCapsAtFive(t *testing.T) {
	db := setupTestDB(t)
	seedQuestionInDivision(t, db, "Evidence", "352", "", true)
	seedQuestionInDivision(t, db, "Contracts", "1550", "", true)

	stats := UserStats{
		WeakestTopics:    []string{"formation", "consideration"},
		WeakestDivisions: []string{"Contracts", "Torts"},
	}
	user := models.User{LearningGoal: GoalBarExam}

	suggestions := SuggestNextSteps(context.Background(), db, nil, "test-model", user, stats)
	if len(suggestions) != 5 {
		t.Errorf("Expected suggestions capped at 5, got %d", len(suggestions))
	}
}
