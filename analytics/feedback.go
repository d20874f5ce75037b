package analytics

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// TextClient is the slice of the LLM client the learning summary needs.
type TextClient interface {
	Complete(ctx context.Context, model, system, prompt string, maxTokens int) (string, error)
	CompleteJSON(ctx context.Context, model, system, prompt string) (string, error)
}

// FallbackFeedback is served when the feedback model is unavailable.
const FallbackFeedback = "Unable to generate personalized feedback at this time. Keep practicing to improve your legal knowledge!"

// NoActivityFeedback is served before the user has answered anything.
const NoActivityFeedback = "You haven't answered any questions yet. Take a quiz to start building your personalized feedback!"

const feedbackMaxTokens = 300

// GenerateFeedback asks the feedback model for a short personalized review
// of the user's stats. Failures degrade to FallbackFeedback instead of
// failing the summary.
func GenerateFeedback(ctx context.Context, client TextClient, model string, stats UserStats) string {
	if stats.Overall.TotalQuestionsAnswered == 0 {
		return NoActivityFeedback
	}
	if client == nil {
		return FallbackFeedback
	}

	feedback, err := client.Complete(ctx, model, "", buildFeedbackPrompt(stats), feedbackMaxTokens)
	if err != nil || strings.TrimSpace(feedback) == "" {
		log.Printf("[LEARNING-SUMMARY] Feedback generation failed: %v", err)
		return FallbackFeedback
	}
	return strings.TrimSpace(feedback)
}

func buildFeedbackPrompt(stats UserStats) string {
	var b strings.Builder

	b.WriteString("As an expert legal tutor, provide personalized feedback based on these quiz statistics:\n\n")
	b.WriteString("Overall Performance:\n")
	fmt.Fprintf(&b, "- Questions answered: %d\n", stats.Overall.TotalQuestionsAnswered)
	fmt.Fprintf(&b, "- Correct answers: %d\n", stats.Overall.CorrectAnswers)
	fmt.Fprintf(&b, "- Accuracy: %.1f%%\n\n", stats.Overall.Accuracy)

	if len(stats.ByDivision) > 0 {
		b.WriteString("Division Performance:\n")
		for _, name := range sortedKeys(stats.ByDivision) {
			group := stats.ByDivision[name]
			fmt.Fprintf(&b, "- %s: %.1f%% (%d/%d)\n", name, group.Accuracy, group.CorrectAnswers, group.TotalQuestions)
		}
		b.WriteString("\n")
	}

	if len(stats.ByTopic) > 0 {
		b.WriteString("Topic Performance:\n")
		for _, name := range sortedKeys(stats.ByTopic) {
			group := stats.ByTopic[name]
			fmt.Fprintf(&b, "- %s: %.1f%% (%d/%d)\n", name, group.Accuracy, group.CorrectAnswers, group.TotalQuestions)
		}
		b.WriteString("\n")
	}

	if len(stats.WeakestDivisions) > 0 {
		fmt.Fprintf(&b, "Weakest Divisions: %s\n\n", strings.Join(stats.WeakestDivisions, ", "))
	}
	if len(stats.WeakestTopics) > 0 {
		fmt.Fprintf(&b, "Weakest Topics: %s\n\n", strings.Join(stats.WeakestTopics, ", "))
	}

	b.WriteString(`Provide a concise, actionable 2-paragraph feedback that:
1. Highlights strengths and areas for improvement
2. Offers specific advice for improving knowledge in weak areas
3. Is encouraging and constructive

Keep the tone professional but supportive.`)

	return b.String()
}

func sortedKeys(groups map[string]GroupStats) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
