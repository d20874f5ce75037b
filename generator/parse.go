package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errMalformedResponse marks model output that could not be reduced to a
// question array. It triggers one stricter regeneration pass.
var errMalformedResponse = errors.New("malformed generation response")

var optionLabels = []string{"A", "B", "C", "D", "E"}

// generatedMCQ is one question as produced by the model. The flat option_a
// style fields appear in some model outputs and are folded into Options.
type generatedMCQ struct {
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	OptionA       string            `json:"option_a"`
	OptionB       string            `json:"option_b"`
	OptionC       string            `json:"option_c"`
	OptionD       string            `json:"option_d"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

func (m *generatedMCQ) normalize() {
	m.CorrectAnswer = strings.TrimSpace(m.CorrectAnswer)
	if len(m.Options) > 0 {
		return
	}
	options := make(map[string]string)
	for label, text := range map[string]string{"A": m.OptionA, "B": m.OptionB, "C": m.OptionC, "D": m.OptionD} {
		if strings.TrimSpace(text) != "" {
			options[label] = text
		}
	}
	if len(options) > 0 {
		m.Options = options
	}
}

// parseGenerated accepts either a bare JSON array of questions or an object
// wrapping the array under a known key.
func parseGenerated(raw string) ([]generatedMCQ, error) {
	trimmed := strings.TrimSpace(raw)

	var parsed []generatedMCQ
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return normalizeAll(parsed), nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedResponse, err)
	}

	for _, key := range []string{"mcqs", "questions", "results"} {
		rawList, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(rawList, &parsed); err == nil {
			return normalizeAll(parsed), nil
		}
	}

	// Some responses wrap the array under an arbitrary key.
	for _, rawList := range wrapper {
		if err := json.Unmarshal(rawList, &parsed); err == nil && len(parsed) > 0 {
			return normalizeAll(parsed), nil
		}
	}

	return nil, fmt.Errorf("%w: no question array found", errMalformedResponse)
}

func normalizeAll(items []generatedMCQ) []generatedMCQ {
	for i := range items {
		items[i].normalize()
	}
	return items
}

// validateMCQ enforces the stored question contract: 4 or 5 options on
// consecutive labels starting at A, a correct answer among those labels and
// non-empty texts throughout.
func validateMCQ(m generatedMCQ) error {
	if strings.TrimSpace(m.QuestionText) == "" {
		return errors.New("empty question_text")
	}
	if len(m.Options) < 4 || len(m.Options) > 5 {
		return fmt.Errorf("expected 4 or 5 options, got %d", len(m.Options))
	}
	for _, label := range optionLabels[:len(m.Options)] {
		text, ok := m.Options[label]
		if !ok {
			return fmt.Errorf("missing option label %s", label)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("empty option text for label %s", label)
		}
	}
	if _, ok := m.Options[m.CorrectAnswer]; !ok {
		return fmt.Errorf("correct_answer %q is not an option label", m.CorrectAnswer)
	}
	if strings.TrimSpace(m.Explanation) == "" {
		return errors.New("empty explanation")
	}
	return nil
}
