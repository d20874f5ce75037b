package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MCQQuestion struct {
	gorm.Model
	LegalSectionID   uint           `json:"legal_section_id" gorm:"index;not null"`
	LegalSection     LegalSection   `json:"-" gorm:"foreignKey:LegalSectionID"`
	QuestionText     string         `json:"question_text" gorm:"type:text;not null"`
	Options          datatypes.JSON `json:"options" gorm:"not null"` // label -> option text
	CorrectAnswer    string         `json:"correct_answer" gorm:"not null"`
	Explanation      string         `json:"explanation" gorm:"type:text"`
	TopicTag         string         `json:"topic_tag" gorm:"index;default:''"`
	GeneratedByModel string         `json:"generated_by_model" gorm:"default:''"`
	IsValidated      bool           `json:"is_validated" gorm:"default:false"`
}

// OptionMap decodes the stored options column into a label keyed map.
func (q *MCQQuestion) OptionMap() (map[string]string, error) {
	options := make(map[string]string)
	if len(q.Options) == 0 {
		return options, nil
	}
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, err
	}
	return options, nil
}
