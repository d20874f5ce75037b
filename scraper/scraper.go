package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/models"
	"github.com/shuddl/quizlaw/store"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// Stats reports the outcome of one division scrape.
type Stats struct {
	SectionsFound   int `json:"sections_found"`
	SectionsScraped int `json:"sections_scraped"`
	SectionsCreated int `json:"sections_created"`
	SectionsUpdated int `json:"sections_updated"`
	Errors          int `json:"errors"`
}

// Service fetches legal code pages and stores the parsed sections.
type Service struct {
	db      *gorm.DB
	client  *resty.Client
	workers int
	delay   time.Duration
}

// New builds a scraper with a retrying HTTP client.
func New(db *gorm.DB, cfg *config.Config) *Service {
	client := resty.New().
		SetTimeout(time.Duration(cfg.ScraperTimeoutSeconds) * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("User-Agent", cfg.ScraperUserAgent).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil ||
				resp.StatusCode() == http.StatusTooManyRequests ||
				resp.StatusCode() >= http.StatusInternalServerError
		})

	workers := cfg.ScraperWorkers
	if workers < 1 {
		workers = 1
	}

	return &Service{
		db:      db,
		client:  client,
		workers: workers,
		delay:   time.Duration(cfg.ScraperDelayMs) * time.Millisecond,
	}
}

type pageResult struct {
	url     string
	section *models.LegalSection
	err     error
}

// ScrapeDivision fetches a division index page, follows every section link
// found on it and upserts the parsed sections. Page level failures are
// counted and logged, never fatal; only an unreachable index page fails the
// whole scrape.
func (s *Service) ScrapeDivision(ctx context.Context, indexURL string) (Stats, error) {
	var stats Stats

	body, err := s.fetch(ctx, indexURL)
	if err != nil {
		stats.Errors++
		return stats, fmt.Errorf("fetch division page: %w", err)
	}

	links, err := ExtractSectionLinks(body, indexURL)
	if err != nil {
		stats.Errors++
		return stats, fmt.Errorf("parse division page: %w", err)
	}
	stats.SectionsFound = len(links)
	log.Printf("[SCRAPER] Found %d section links on %s", len(links), indexURL)

	jobs := make(chan string)
	results := make(chan pageResult)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pageURL := range jobs {
				section, err := s.scrapePage(ctx, pageURL)
				results <- pageResult{url: pageURL, section: section, err: err}
				time.Sleep(s.delay)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, link := range links {
			select {
			case jobs <- link:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Upserts stay on this goroutine so the workers only do network and
	// parse work.
	for result := range results {
		if result.err != nil {
			stats.Errors++
			log.Printf("[SCRAPER] Failed to scrape %s: %v", result.url, result.err)
			continue
		}
		stats.SectionsScraped++

		created, err := store.UpsertSectionBySourceURL(s.db, result.section)
		if err != nil {
			stats.Errors++
			log.Printf("[SCRAPER] Failed to store section from %s: %v", result.url, err)
			continue
		}
		if created {
			stats.SectionsCreated++
		} else {
			stats.SectionsUpdated++
		}
	}

	return stats, nil
}

func (s *Service) scrapePage(ctx context.Context, pageURL string) (*models.LegalSection, error) {
	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseSectionPage(body, pageURL)
}

func (s *Service) fetch(ctx context.Context, pageURL string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("GET %s: status %d", pageURL, resp.StatusCode())
	}
	return resp.String(), nil
}
