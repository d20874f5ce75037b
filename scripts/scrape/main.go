package main

import (
	"context"
	"flag"
	"log"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/scraper"
)

func main() {
	indexURL := flag.String("url", "", "Division index page URL to scrape")
	flag.Parse()

	if *indexURL == "" {
		log.Fatal("Usage: go run scripts/scrape/main.go -url <division index URL>")
	}

	// Load config and connect to database
	cfg := config.Load()
	database.ConnectDb(cfg)

	svc := scraper.New(database.Database.Db, cfg)
	stats, err := svc.ScrapeDivision(context.Background(), *indexURL)
	if err != nil {
		log.Fatalf("Scrape failed: %v", err)
	}

	log.Printf("=== Scrape Complete ===")
	log.Printf("Sections found: %d", stats.SectionsFound)
	log.Printf("Scraped: %d", stats.SectionsScraped)
	log.Printf("Created: %d", stats.SectionsCreated)
	log.Printf("Updated: %d", stats.SectionsUpdated)
	log.Printf("Errors: %d", stats.Errors)
}
