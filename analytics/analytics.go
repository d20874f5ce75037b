package analytics

import (
	"sort"

	"github.com/shuddl/quizlaw/store"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// weakSpotMinAttempts is the minimum answered questions a division or topic
// needs before it can be flagged as weak.
const weakSpotMinAttempts = 3

// GroupStats aggregates attempts for one division or topic.
type GroupStats struct {
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
}

// OverallStats aggregates all attempts of a user.
type OverallStats struct {
	TotalQuestionsAnswered int     `json:"total_questions_answered"`
	CorrectAnswers         int     `json:"correct_answers"`
	Accuracy               float64 `json:"accuracy"`
}

// UserStats is the full aggregate served by the learning summary.
type UserStats struct {
	Overall          OverallStats          `json:"overall"`
	ByDivision       map[string]GroupStats `json:"by_division"`
	ByTopic          map[string]GroupStats `json:"by_topic"`
	WeakestDivisions []string              `json:"weakest_divisions"`
	WeakestTopics    []string              `json:"weakest_topics"`
	AnsweredToday    int64                 `json:"answered_today"`
	AnsweredThisWeek int64                 `json:"answered_this_week"`
}

// CalculateUserStats aggregates every attempt of a user into overall, per
// division and per topic accuracy plus recent activity counts. Attempts on
// questions without a topic tag count toward overall and division stats only.
func CalculateUserStats(db *gorm.DB, userID uint) (UserStats, error) {
	stats := UserStats{
		ByDivision:       make(map[string]GroupStats),
		ByTopic:          make(map[string]GroupStats),
		WeakestDivisions: []string{},
		WeakestTopics:    []string{},
	}

	rows, err := store.AttemptRowsForUser(db, userID)
	if err != nil {
		return stats, err
	}

	for _, row := range rows {
		stats.Overall.TotalQuestionsAnswered++
		division := stats.ByDivision[row.Division]
		division.TotalQuestions++

		var topic GroupStats
		hasTopic := row.TopicTag != ""
		if hasTopic {
			topic = stats.ByTopic[row.TopicTag]
			topic.TotalQuestions++
		}

		if row.IsCorrect {
			stats.Overall.CorrectAnswers++
			division.CorrectAnswers++
			if hasTopic {
				topic.CorrectAnswers++
			}
		}

		stats.ByDivision[row.Division] = division
		if hasTopic {
			stats.ByTopic[row.TopicTag] = topic
		}
	}

	stats.Overall.Accuracy = percent(stats.Overall.CorrectAnswers, stats.Overall.TotalQuestionsAnswered)
	for name, group := range stats.ByDivision {
		group.Accuracy = percent(group.CorrectAnswers, group.TotalQuestions)
		stats.ByDivision[name] = group
	}
	for name, group := range stats.ByTopic {
		group.Accuracy = percent(group.CorrectAnswers, group.TotalQuestions)
		stats.ByTopic[name] = group
	}

	stats.WeakestDivisions = weakestGroups(stats.ByDivision)
	stats.WeakestTopics = weakestGroups(stats.ByTopic)

	if stats.AnsweredToday, err = store.CountAttemptsSince(db, userID, now.BeginningOfDay()); err != nil {
		return stats, err
	}
	if stats.AnsweredThisWeek, err = store.CountAttemptsSince(db, userID, now.BeginningOfWeek()); err != nil {
		return stats, err
	}

	return stats, nil
}

func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// weakestGroups ranks groups with enough attempts by ascending accuracy and
// returns up to three names. Ties prefer the group with fewer attempts, then
// the lexicographically smaller name.
func weakestGroups(groups map[string]GroupStats) []string {
	type ranked struct {
		name     string
		accuracy float64
		total    int
	}

	candidates := make([]ranked, 0, len(groups))
	for name, group := range groups {
		if group.TotalQuestions >= weakSpotMinAttempts {
			candidates = append(candidates, ranked{
				name:     name,
				accuracy: group.Accuracy,
				total:    group.TotalQuestions,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].accuracy != candidates[j].accuracy {
			return candidates[i].accuracy < candidates[j].accuracy
		}
		if candidates[i].total != candidates[j].total {
			return candidates[i].total < candidates[j].total
		}
		return candidates[i].name < candidates[j].name
	})

	names := make([]string, 0, 3)
	for i := 0; i < len(candidates) && i < 3; i++ {
		names = append(names, candidates[i].name)
	}
	return names
}
