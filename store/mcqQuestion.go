package store

import (
	"errors"

	"github.com/shuddl/quizlaw/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ModeRandom     = "random"
	ModeSequential = "sequential"
	ModeLawStudent = "law_student"
)

// ErrInvalidMode is returned for quiz modes outside the supported set.
var ErrInvalidMode = errors.New("invalid quiz mode")

// QuizFilter describes a quiz selection request.
type QuizFilter struct {
	Mode     string
	Division string
	Topic    string
	Count    int
}

// QuizRow is one selected question joined with its source section.
type QuizRow struct {
	ID            uint           `json:"id"`
	QuestionText  string         `json:"question_text"`
	Options       datatypes.JSON `json:"options"`
	SourceURL     string         `json:"source_url"`
	SectionNumber string         `json:"section_number"`
}

// SelectQuiz picks up to filter.Count questions for a division.
//
// Modes:
//   - random: uniform shuffle over the division pool
//   - sequential: ordered by section number, then by question creation order
//   - law_student: pool restricted to bar relevant sections, then shuffled
//
// A division with sections but no matching questions yields an empty result.
// A division with no sections at all yields ErrUnknownDivision.
func SelectQuiz(db *gorm.DB, filter QuizFilter) ([]QuizRow, error) {
	var sectionCount int64
	if err := db.Model(&models.LegalSection{}).
		Where("division = ?", filter.Division).
		Count(&sectionCount).Error; err != nil {
		return nil, err
	}
	if sectionCount == 0 {
		return nil, ErrUnknownDivision
	}

	query := db.Model(&models.MCQQuestion{}).
		Select("mcq_questions.id, mcq_questions.question_text, mcq_questions.options, legal_sections.source_url, legal_sections.section_number").
		Joins("JOIN legal_sections ON legal_sections.id = mcq_questions.legal_section_id").
		Where("legal_sections.division = ?", filter.Division)

	if filter.Topic != "" {
		query = query.Where("mcq_questions.topic_tag = ?", filter.Topic)
	}

	switch filter.Mode {
	case ModeRandom:
		query = query.Order("RANDOM()")
	case ModeLawStudent:
		query = query.Where("legal_sections.is_bar_relevant = ?", true).Order("RANDOM()")
	case ModeSequential:
		query = query.Order("legal_sections.section_number ASC, mcq_questions.id ASC")
	default:
		return nil, ErrInvalidMode
	}

	rows := make([]QuizRow, 0, filter.Count)
	if err := query.Limit(filter.Count).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// QuestionByID loads a single question.
func QuestionByID(db *gorm.DB, id uint) (models.MCQQuestion, error) {
	var question models.MCQQuestion
	err := db.First(&question, id).Error
	return question, err
}

// InsertQuestions stores a batch of generated questions.
func InsertQuestions(db *gorm.DB, questions []models.MCQQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return db.Create(&questions).Error
}

// QuestionCountForSection counts the stored questions of one section.
func QuestionCountForSection(db *gorm.DB, sectionID uint) (int64, error) {
	var count int64
	err := db.Model(&models.MCQQuestion{}).
		Where("legal_section_id = ?", sectionID).
		Count(&count).Error
	return count, err
}
