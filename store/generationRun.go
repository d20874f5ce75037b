package store

import (
	"github.com/shuddl/quizlaw/models"

	"gorm.io/gorm"
)

// CreateGenerationRun stores a new run row in RUNNING state.
func CreateGenerationRun(db *gorm.DB, run *models.GenerationRun) error {
	return db.Create(run).Error
}

// SaveGenerationRun persists updated run counters and status.
func SaveGenerationRun(db *gorm.DB, run *models.GenerationRun) error {
	return db.Save(run).Error
}

// RecentGenerationRuns lists the newest runs first.
func RecentGenerationRuns(db *gorm.DB, limit int) ([]models.GenerationRun, error) {
	runs := make([]models.GenerationRun, 0)
	err := db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
