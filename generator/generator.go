package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/models"
	"github.com/shuddl/quizlaw/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompletionClient is the slice of the LLM client the generator needs.
type CompletionClient interface {
	CompleteJSON(ctx context.Context, model, system, prompt string) (string, error)
}

// SectionStats reports MCQ generation for one section.
type SectionStats struct {
	McqsRequested int    `json:"mcqs_requested"`
	McqsGenerated int    `json:"mcqs_generated"`
	McqsValidated int    `json:"mcqs_validated"`
	McqsStored    int    `json:"mcqs_stored"`
	Errors        int    `json:"errors"`
	Skipped       bool   `json:"skipped"`
	SkipReason    string `json:"skip_reason,omitempty"`
}

// Service turns stored legal sections into multiple choice questions.
type Service struct {
	db  *gorm.DB
	llm CompletionClient
	cfg *config.Config
}

// New builds a generator service.
func New(db *gorm.DB, client CompletionClient, cfg *config.Config) *Service {
	return &Service{db: db, llm: client, cfg: cfg}
}

type sectionOutcome struct {
	section models.LegalSection
	stats   SectionStats
	err     error
}

// GenerateForDivision runs MCQ generation over every section of a division
// with a bounded worker pool and records the aggregate outcome as a
// GenerationRun row. workers <= 0 falls back to the configured pool size.
func (s *Service) GenerateForDivision(ctx context.Context, division string, numPerSection, workers int) (*models.GenerationRun, error) {
	sections, err := store.SectionsByDivision(s.db, division)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, store.ErrUnknownDivision
	}

	if workers <= 0 {
		workers = s.cfg.GenerationWorkers
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(sections) {
		workers = len(sections)
	}

	run := &models.GenerationRun{
		RunID:         uuid.NewString(),
		Division:      division,
		NumPerSection: numPerSection,
		SectionsTotal: len(sections),
		McqsRequested: len(sections) * numPerSection,
		Status:        models.RunStatusRunning,
	}
	if err := store.CreateGenerationRun(s.db, run); err != nil {
		return nil, err
	}

	log.Printf("[MCQ-GENERATOR] Run %s: generating up to %d questions for each of %d sections in %s",
		run.RunID, numPerSection, len(sections), division)

	jobs := make(chan models.LegalSection)
	results := make(chan sectionOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for section := range jobs {
				stats, err := s.GenerateForSection(ctx, section, numPerSection)
				results <- sectionOutcome{section: section, stats: stats, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, section := range sections {
			select {
			case jobs <- section:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for outcome := range results {
		switch {
		case outcome.err != nil:
			run.SectionsFailed++
			run.TotalErrors++
			log.Printf("[MCQ-GENERATOR] Section %s failed: %v", outcome.section.SectionNumber, outcome.err)
		case outcome.stats.Skipped:
			run.SectionsSkipped++
			run.TotalErrors += outcome.stats.Errors
			log.Printf("[MCQ-GENERATOR] Section %s skipped: %s", outcome.section.SectionNumber, outcome.stats.SkipReason)
		default:
			run.SectionsProcessed++
			run.McqsStored += outcome.stats.McqsStored
			run.TotalErrors += outcome.stats.Errors
			log.Printf("[MCQ-GENERATOR] Generated %d MCQs for section %s", outcome.stats.McqsStored, outcome.section.SectionNumber)
		}
	}

	finishedAt := time.Now()
	run.FinishedAt = &finishedAt
	run.Status = models.RunStatusCompleted
	if ctx.Err() != nil {
		run.Status = models.RunStatusFailed
	}
	if err := store.SaveGenerationRun(s.db, run); err != nil {
		return run, err
	}

	log.Printf("[MCQ-GENERATOR] Run %s finished: %d processed, %d skipped, %d failed, %d questions stored",
		run.RunID, run.SectionsProcessed, run.SectionsSkipped, run.SectionsFailed, run.McqsStored)

	return run, nil
}

// GenerateForSection generates and stores questions for one section.
//
// Sections are skipped, never failed, when they have no body text, already
// hold the requested number of questions or are claimed by another worker.
// A response that fails validation gets one stricter regeneration pass
// before the section is skipped and the failure reported.
func (s *Service) GenerateForSection(ctx context.Context, section models.LegalSection, numQuestions int) (SectionStats, error) {
	stats := SectionStats{McqsRequested: numQuestions}

	if strings.TrimSpace(section.SectionText) == "" {
		stats.Skipped = true
		stats.SkipReason = "section has no body text"
		return stats, nil
	}

	existing, err := store.QuestionCountForSection(s.db, section.ID)
	if err != nil {
		stats.Errors++
		return stats, err
	}
	if existing >= int64(numQuestions) {
		stats.Skipped = true
		stats.SkipReason = fmt.Sprintf("section already has %d questions", existing)
		return stats, nil
	}

	claimed, err := store.ClaimSectionForGeneration(s.db, section.ID)
	if err != nil {
		stats.Errors++
		return stats, err
	}
	if !claimed {
		stats.Skipped = true
		stats.SkipReason = "generation already in progress"
		return stats, nil
	}

	var generatedAt *time.Time
	defer func() {
		if err := store.ReleaseSectionClaim(s.db, section.ID, generatedAt); err != nil {
			log.Printf("[MCQ-GENERATOR] Failed to release claim on section %s: %v", section.SectionNumber, err)
		}
	}()

	valid, invalid, err := s.generateOnce(ctx, section, numQuestions, false)
	if err != nil && !errors.Is(err, errMalformedResponse) {
		stats.Errors++
		return stats, err
	}
	stats.McqsGenerated = len(valid) + invalid

	if err != nil || invalid > 0 || len(valid) == 0 {
		log.Printf("[MCQ-GENERATOR] Section %s response failed validation, retrying with stricter prompt", section.SectionNumber)
		retryValid, retryInvalid, retryErr := s.generateOnce(ctx, section, numQuestions, true)
		if retryErr == nil && len(retryValid) >= len(valid) {
			valid, invalid = retryValid, retryInvalid
			stats.McqsGenerated = len(valid) + invalid
		}
	}

	stats.McqsValidated = len(valid)
	stats.Errors += invalid

	if len(valid) == 0 {
		stats.Skipped = true
		stats.SkipReason = "no valid questions produced"
		if stats.Errors == 0 {
			stats.Errors = 1
		}
		return stats, nil
	}

	questions := make([]models.MCQQuestion, 0, len(valid))
	for _, item := range valid {
		encoded, err := json.Marshal(item.Options)
		if err != nil {
			stats.Errors++
			continue
		}
		questions = append(questions, models.MCQQuestion{
			LegalSectionID:   section.ID,
			QuestionText:     item.QuestionText,
			Options:          datatypes.JSON(encoded),
			CorrectAnswer:    item.CorrectAnswer,
			Explanation:      item.Explanation,
			GeneratedByModel: s.cfg.GenerationModel,
			IsValidated:      true,
		})
	}

	if err := store.InsertQuestions(s.db, questions); err != nil {
		stats.Errors++
		return stats, err
	}
	stats.McqsStored = len(questions)

	completedAt := time.Now()
	generatedAt = &completedAt

	return stats, nil
}

// generateOnce performs a single completion round and validates every
// returned question.
func (s *Service) generateOnce(ctx context.Context, section models.LegalSection, numQuestions int, strict bool) ([]generatedMCQ, int, error) {
	prompt := BuildPrompt(section, numQuestions)
	if strict {
		prompt += strictSuffix
	}

	raw, err := s.llm.CompleteJSON(ctx, s.cfg.GenerationModel, "", prompt)
	if err != nil {
		return nil, 0, err
	}

	parsed, err := parseGenerated(raw)
	if err != nil {
		return nil, 0, err
	}

	valid := make([]generatedMCQ, 0, len(parsed))
	invalid := 0
	for _, item := range parsed {
		if err := validateMCQ(item); err != nil {
			invalid++
			log.Printf("[MCQ-GENERATOR] Dropping invalid question for section %s: %v", section.SectionNumber, err)
			continue
		}
		valid = append(valid, item)
	}

	return valid, invalid, nil
}
