package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/shuddl/quizlaw/models"
	"github.com/shuddl/quizlaw/store"

	"gorm.io/gorm"
)

const maxSuggestions = 5

// Learning goals selectable on a user profile.
const (
	GoalBarExam              = "bar_exam"
	GoalPracticeReadiness    = "practice_readiness"
	GoalGeneralKnowledge     = "general_knowledge"
	GoalAcademic             = "academic"
	GoalSpecificPracticeArea = "specific_practice_area"
)

// LearningGoals maps each selectable goal to its description.
var LearningGoals = map[string]string{
	GoalBarExam:              "Prepare for the bar examination",
	GoalPracticeReadiness:    "Prepare for legal practice",
	GoalGeneralKnowledge:     "Improve general legal knowledge",
	GoalAcademic:             "Academic research or teaching",
	GoalSpecificPracticeArea: "Focus on a specific practice area",
}

// ValidLearningGoal reports whether the goal is one of the selectable keys.
func ValidLearningGoal(goal string) bool {
	_, ok := LearningGoals[goal]
	return ok
}

// Suggestion is one recommended next study step.
type Suggestion struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

var generalSuggestions = []Suggestion{
	{
		Type:   "strategy",
		Name:   "Timed Practice",
		Reason: "Practice answering questions under time constraints to build exam readiness.",
	},
	{
		Type:   "strategy",
		Name:   "Review Explanations",
		Reason: "Thoroughly review explanations for questions you answered incorrectly to reinforce learning.",
	},
	{
		Type:   "strategy",
		Name:   "Mixed Division Quiz",
		Reason: "Take quizzes that mix multiple divisions to build connections between different areas of law.",
	},
}

var practiceTopics = []string{"Legal Procedure", "Professional Responsibility", "Client Counseling"}

// SuggestNextSteps builds up to five study suggestions. Weak topics and
// divisions come first, then goal specific picks, then an AI top-up when the
// ladder produced too little, and finally general strategies. Every internal
// failure degrades to fewer personalized entries, never to an error.
func SuggestNextSteps(ctx context.Context, db *gorm.DB, client TextClient, model string, user models.User, stats UserStats) []Suggestion {
	suggestions := make([]Suggestion, 0, maxSuggestions)

	for i, topic := range stats.WeakestTopics {
		if i >= 2 {
			break
		}
		suggestions = append(suggestions, Suggestion{
			Type:   "topic",
			Name:   topic,
			Reason: fmt.Sprintf("You've had difficulty with questions related to '%s'. More practice here will strengthen your understanding.", topic),
		})
	}

	for i, division := range stats.WeakestDivisions {
		if i >= 2 || len(suggestions) >= 3 {
			break
		}
		suggestions = append(suggestions, Suggestion{
			Type:   "division",
			Name:   division,
			Reason: fmt.Sprintf("Your accuracy in '%s' is lower than other areas. Additional focus here will help improve your performance.", division),
		})
	}

	if user.LearningGoal == GoalBarExam && len(suggestions) < 4 {
		sections, err := store.RandomBarRelevantSections(db, 2)
		if err != nil {
			log.Printf("[LEARNING-SUMMARY] Failed to load bar relevant sections: %v", err)
		} else {
			for _, section := range sections {
				if len(suggestions) >= maxSuggestions {
					break
				}
				suggestions = append(suggestions, Suggestion{
					Type:   "bar_section",
					Name:   fmt.Sprintf("%s - %s", section.Division, section.SectionNumber),
					Reason: "This section is frequently tested on the bar exam and will strengthen your preparation.",
				})
			}
		}
	}

	if user.LearningGoal == GoalPracticeReadiness && len(suggestions) < 4 {
		for _, topic := range practiceTopics {
			if len(suggestions) >= maxSuggestions {
				break
			}
			if containsName(suggestions, topic) {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Type:   "practice_topic",
				Name:   topic,
				Reason: fmt.Sprintf("Mastering '%s' is essential for effective legal practice.", topic),
			})
		}
	}

	if len(suggestions) < 3 && client != nil {
		aiSuggestions, err := requestAISuggestions(ctx, client, model, user.LearningGoal, stats)
		if err != nil {
			log.Printf("[LEARNING-SUMMARY] AI suggestion top-up failed: %v", err)
		} else {
			for _, suggestion := range aiSuggestions {
				if len(suggestions) >= maxSuggestions {
					break
				}
				if suggestion.Name == "" || containsName(suggestions, suggestion.Name) {
					continue
				}
				suggestions = append(suggestions, suggestion)
			}
		}
	}

	for _, general := range generalSuggestions {
		if len(suggestions) >= maxSuggestions {
			break
		}
		if containsName(suggestions, general.Name) {
			continue
		}
		suggestions = append(suggestions, general)
	}

	return suggestions
}

func requestAISuggestions(ctx context.Context, client TextClient, model, goal string, stats UserStats) ([]Suggestion, error) {
	goalText := goal
	if goalText == "" {
		goalText = "Not specified"
	}

	prompt := fmt.Sprintf(`Given a law student with learning goal: %s, overall quiz accuracy %.1f%%, weakest divisions [%s] and weakest topics [%s], suggest 2 more personalized learning steps.
Return a JSON object with a "suggestions" array whose items have the fields: type, name, reason.`,
		goalText,
		stats.Overall.Accuracy,
		strings.Join(stats.WeakestDivisions, ", "),
		strings.Join(stats.WeakestTopics, ", "))

	raw, err := client.CompleteJSON(ctx, model, "", prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	return parsed.Suggestions, nil
}

func containsName(suggestions []Suggestion, name string) bool {
	for _, suggestion := range suggestions {
		if suggestion.Name == name {
			return true
		}
	}
	return false
}
