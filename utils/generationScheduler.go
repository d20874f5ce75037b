package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/shuddl/quizlaw/store"
)

// InitGenerationScheduler sets up the background maintenance jobs for MCQ generation
func InitGenerationScheduler(db *gorm.DB) *cron.Cron {
	log.Println("[GENERATION-SCHEDULER] Initializing generation scheduler...")

	c := cron.New()

	// Run hourly to release claims left behind by interrupted generation runs
	c.AddFunc("0 * * * *", func() {
		ReleaseAbandonedClaims(db)
	})

	// Run daily at 6 AM to report question coverage per division
	c.AddFunc("0 6 * * *", func() {
		LogQuestionCoverage(db)
	})

	c.Start()
	log.Println("[GENERATION-SCHEDULER] Generation scheduler started - claim release hourly, coverage report daily at 6 AM")
	return c
}

// ReleaseAbandonedClaims resets sections stuck in GENERATING for over an hour
func ReleaseAbandonedClaims(db *gorm.DB) {
	released, err := store.ReleaseStaleClaims(db, time.Hour)
	if err != nil {
		log.Printf("[GENERATION-SCHEDULER] Error releasing stale claims: %v", err)
		return
	}
	if released > 0 {
		log.Printf("[GENERATION-SCHEDULER] Released %d stale generation claims", released)
	}
}

// LogQuestionCoverage logs how many questions each division currently has
func LogQuestionCoverage(db *gorm.DB) {
	rows, err := store.QuestionCoverage(db)
	if err != nil {
		log.Printf("[GENERATION-SCHEDULER] Error computing question coverage: %v", err)
		return
	}

	log.Printf("[GENERATION-SCHEDULER] Question coverage across %d divisions:", len(rows))
	for _, row := range rows {
		log.Printf("[GENERATION-SCHEDULER] %s: %d sections, %d questions", row.Division, row.Sections, row.Questions)
	}
}
