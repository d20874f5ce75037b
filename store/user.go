package store

import (
	"github.com/shuddl/quizlaw/models"

	"gorm.io/gorm"
)

// CreateUser stores a new user row.
func CreateUser(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

// UserByEmail loads an active user by email, case insensitively.
func UserByEmail(db *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := db.Where("LOWER(email) = LOWER(?) AND is_deleted = ?", email, false).First(&user).Error
	return user, err
}

// UserByID loads an active user by primary key.
func UserByID(db *gorm.DB, id uint) (models.User, error) {
	var user models.User
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error
	return user, err
}

// SaveUser persists profile changes.
func SaveUser(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

// SetSubscriptionTier updates a user's subscription tier.
func SetSubscriptionTier(db *gorm.DB, userID uint, tier string) error {
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("subscription_tier", tier).Error
}
