package models

import (
	"gorm.io/gorm"
)

type QuizAttempt struct {
	gorm.Model
	UserID         *uint       `json:"user_id" gorm:"index"` // nil for anonymous attempts
	User           *User       `json:"-" gorm:"foreignKey:UserID"`
	QuestionID     uint        `json:"question_id" gorm:"index;not null"`
	Question       MCQQuestion `json:"-" gorm:"foreignKey:QuestionID"`
	SelectedAnswer string      `json:"selected_answer" gorm:"not null"`
	IsCorrect      bool        `json:"is_correct" gorm:"default:false"`
}
