package store

import (
	"errors"
	"time"

	"github.com/shuddl/quizlaw/models"

	"gorm.io/gorm"
)

// ErrUnknownDivision is returned when no legal sections exist for the
// requested division.
var ErrUnknownDivision = errors.New("unknown division")

// UpsertSectionBySourceURL inserts a scraped section or refreshes the stored
// copy when the source URL was seen before. Returns true when a new row was
// created.
func UpsertSectionBySourceURL(db *gorm.DB, section *models.LegalSection) (bool, error) {
	var existing models.LegalSection
	err := db.Where("source_url = ?", section.SourceURL).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, db.Create(section).Error
	}
	if err != nil {
		return false, err
	}

	existing.Division = section.Division
	existing.Part = section.Part
	existing.Chapter = section.Chapter
	existing.SectionNumber = section.SectionNumber
	existing.SectionTitle = section.SectionTitle
	existing.SectionText = section.SectionText

	return false, db.Save(&existing).Error
}

// SectionsByDivision lists every section of a division ordered by section
// number.
func SectionsByDivision(db *gorm.DB, division string) ([]models.LegalSection, error) {
	var sections []models.LegalSection
	err := db.Where("division = ?", division).Order("section_number ASC").Find(&sections).Error
	return sections, err
}

// Divisions lists the distinct division names that have at least one section.
func Divisions(db *gorm.DB) ([]string, error) {
	divisions := make([]string, 0)
	err := db.Model(&models.LegalSection{}).
		Distinct().
		Order("division ASC").
		Pluck("division", &divisions).Error
	return divisions, err
}

// BarRelevanceResult reports the outcome of a bar relevance update.
type BarRelevanceResult struct {
	MarkedRelevant   int64    `json:"marked_relevant"`
	MarkedIrrelevant int64    `json:"marked_irrelevant"`
	Unmatched        []string `json:"unmatched"`
}

// UpdateBarRelevance resets bar relevance for a whole division and then marks
// the listed section numbers as relevant. Section numbers that match no
// stored row are reported back instead of failing the update.
func UpdateBarRelevance(db *gorm.DB, division string, sectionNumbers []string) (BarRelevanceResult, error) {
	result := BarRelevanceResult{Unmatched: []string{}}

	var total int64
	if err := db.Model(&models.LegalSection{}).Where("division = ?", division).Count(&total).Error; err != nil {
		return result, err
	}
	if total == 0 {
		return result, ErrUnknownDivision
	}

	if err := db.Model(&models.LegalSection{}).
		Where("division = ?", division).
		Update("is_bar_relevant", false).Error; err != nil {
		return result, err
	}

	if len(sectionNumbers) > 0 {
		res := db.Model(&models.LegalSection{}).
			Where("division = ? AND section_number IN ?", division, sectionNumbers).
			Update("is_bar_relevant", true)
		if res.Error != nil {
			return result, res.Error
		}
		result.MarkedRelevant = res.RowsAffected

		var matched []string
		if err := db.Model(&models.LegalSection{}).
			Where("division = ? AND section_number IN ?", division, sectionNumbers).
			Pluck("section_number", &matched).Error; err != nil {
			return result, err
		}
		matchedSet := make(map[string]bool, len(matched))
		for _, number := range matched {
			matchedSet[number] = true
		}
		seen := make(map[string]bool, len(sectionNumbers))
		for _, number := range sectionNumbers {
			if seen[number] {
				continue
			}
			seen[number] = true
			if !matchedSet[number] {
				result.Unmatched = append(result.Unmatched, number)
			}
		}
	}

	result.MarkedIrrelevant = total - result.MarkedRelevant
	return result, nil
}

// ClaimSectionForGeneration atomically moves a section from IDLE to
// GENERATING. Returns false when another worker already holds the claim.
func ClaimSectionForGeneration(db *gorm.DB, sectionID uint) (bool, error) {
	res := db.Model(&models.LegalSection{}).
		Where("id = ? AND generation_status = ?", sectionID, models.GenerationIdle).
		Updates(map[string]interface{}{
			"generation_status":     models.GenerationRunning,
			"generation_claimed_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseSectionClaim returns a section to IDLE. When generatedAt is set the
// section's last generation timestamp is updated as well.
func ReleaseSectionClaim(db *gorm.DB, sectionID uint, generatedAt *time.Time) error {
	updates := map[string]interface{}{
		"generation_status":     models.GenerationIdle,
		"generation_claimed_at": nil,
	}
	if generatedAt != nil {
		updates["last_mcq_generated_at"] = *generatedAt
	}
	return db.Model(&models.LegalSection{}).Where("id = ?", sectionID).Updates(updates).Error
}

// ReleaseStaleClaims frees sections whose generation claim is older than
// maxAge. Crashed workers leave claims behind, so this runs on a schedule.
func ReleaseStaleClaims(db *gorm.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	res := db.Model(&models.LegalSection{}).
		Where("generation_status = ? AND generation_claimed_at < ?", models.GenerationRunning, cutoff).
		Updates(map[string]interface{}{
			"generation_status":     models.GenerationIdle,
			"generation_claimed_at": nil,
		})
	return res.RowsAffected, res.Error
}

// RandomBarRelevantSections picks bar relevant sections across all divisions.
func RandomBarRelevantSections(db *gorm.DB, limit int) ([]models.LegalSection, error) {
	var sections []models.LegalSection
	err := db.Where("is_bar_relevant = ?", true).Order("RANDOM()").Limit(limit).Find(&sections).Error
	return sections, err
}

// CoverageRow summarizes stored section and question counts per division.
type CoverageRow struct {
	Division  string `json:"division"`
	Sections  int64  `json:"sections"`
	Questions int64  `json:"questions"`
}

// QuestionCoverage reports how many sections and questions each division has.
func QuestionCoverage(db *gorm.DB) ([]CoverageRow, error) {
	rows := make([]CoverageRow, 0)
	err := db.Model(&models.LegalSection{}).
		Select("legal_sections.division AS division, COUNT(DISTINCT legal_sections.id) AS sections, COUNT(mcq_questions.id) AS questions").
		Joins("LEFT JOIN mcq_questions ON mcq_questions.legal_section_id = legal_sections.id").
		Group("legal_sections.division").
		Order("legal_sections.division ASC").
		Scan(&rows).Error
	return rows, err
}
