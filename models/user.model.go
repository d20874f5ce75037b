package models

import (
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	TierFree    = "Free"
	TierPremium = "Premium"
)

type User struct {
	gorm.Model
	Name             string `json:"name" gorm:"default:''"`
	Email            string `json:"email" gorm:"unique;not null"`
	Password         string `json:"-" gorm:"not null"`
	Role             string `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	SubscriptionTier string `json:"subscription_tier" gorm:"default:'Free'"` // Free, Premium
	LearningGoal     string `json:"learning_goal" gorm:"default:''"`
	IsDeleted        bool   `json:"-" gorm:"default:false"`
}
