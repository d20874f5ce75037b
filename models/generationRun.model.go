package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

type GenerationRun struct {
	gorm.Model
	RunID             string     `json:"run_id" gorm:"uniqueIndex;not null"`
	Division          string     `json:"division" gorm:"index;not null"`
	NumPerSection     int        `json:"num_per_section"`
	SectionsTotal     int        `json:"sections_total"`
	SectionsProcessed int        `json:"sections_processed"`
	SectionsSkipped   int        `json:"sections_skipped"`
	SectionsFailed    int        `json:"sections_failed"`
	McqsRequested     int        `json:"mcqs_requested"`
	McqsStored        int        `json:"mcqs_stored"`
	TotalErrors       int        `json:"total_errors"`
	Status            string     `json:"status" gorm:"default:'RUNNING'"` // RUNNING, COMPLETED, FAILED
	FinishedAt        *time.Time `json:"finished_at"`
}
