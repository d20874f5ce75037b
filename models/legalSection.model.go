package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GenerationIdle    = "IDLE"
	GenerationRunning = "GENERATING"
)

type LegalSection struct {
	gorm.Model
	Division            string     `json:"division" gorm:"index;uniqueIndex:idx_division_section;not null"`
	Part                string     `json:"part" gorm:"default:''"`
	Chapter             string     `json:"chapter" gorm:"default:''"`
	SectionNumber       string     `json:"section_number" gorm:"uniqueIndex:idx_division_section;not null"`
	SectionTitle        string     `json:"section_title" gorm:"not null"`
	SectionText         string     `json:"section_text" gorm:"type:text"`
	SourceURL           string     `json:"source_url" gorm:"unique;not null"`
	IsBarRelevant       bool       `json:"is_bar_relevant" gorm:"default:false"`
	GenerationStatus    string     `json:"generation_status" gorm:"default:'IDLE'"` // IDLE, GENERATING
	GenerationClaimedAt *time.Time `json:"generation_claimed_at"`
	LastMCQGeneratedAt  *time.Time `json:"last_mcq_generated_at"`
}
