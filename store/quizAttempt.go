package store

import (
	"time"

	"github.com/shuddl/quizlaw/models"

	"gorm.io/gorm"
)

// InsertAttempt records one answered question.
func InsertAttempt(db *gorm.DB, attempt *models.QuizAttempt) error {
	return db.Create(attempt).Error
}

// AttemptRow joins an attempt outcome with the division and topic of its
// question, which is all the aggregator needs.
type AttemptRow struct {
	IsCorrect bool
	Division  string
	TopicTag  string
}

// AttemptRowsForUser loads every attempt of a user with question context.
func AttemptRowsForUser(db *gorm.DB, userID uint) ([]AttemptRow, error) {
	rows := make([]AttemptRow, 0)
	err := db.Model(&models.QuizAttempt{}).
		Select("quiz_attempts.is_correct, legal_sections.division, mcq_questions.topic_tag").
		Joins("JOIN mcq_questions ON mcq_questions.id = quiz_attempts.question_id").
		Joins("JOIN legal_sections ON legal_sections.id = mcq_questions.legal_section_id").
		Where("quiz_attempts.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}

// CountAttemptsSince counts a user's attempts recorded at or after the given
// time.
func CountAttemptsSince(db *gorm.DB, userID uint, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
