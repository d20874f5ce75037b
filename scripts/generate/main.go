package main

import (
	"context"
	"flag"
	"log"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/generator"
	"github.com/shuddl/quizlaw/llm"
)

func main() {
	division := flag.String("division", "", "Division to generate MCQs for")
	numPerSection := flag.Int("num", 0, "Questions per section (defaults to MCQS_PER_SECTION)")
	workers := flag.Int("workers", 0, "Concurrent workers (defaults to GENERATION_WORKERS)")
	flag.Parse()

	if *division == "" {
		log.Fatal("Usage: go run scripts/generate/main.go -division <division> [-num N] [-workers N]")
	}

	// Load config and connect to database
	cfg := config.Load()
	database.ConnectDb(cfg)

	n := *numPerSection
	if n <= 0 {
		n = cfg.McqsPerSection
	}

	svc := generator.New(database.Database.Db, llm.New(cfg), cfg)
	run, err := svc.GenerateForDivision(context.Background(), *division, n, *workers)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	log.Printf("=== Generation Complete ===")
	log.Printf("Run ID: %s", run.RunID)
	log.Printf("Sections processed: %d/%d", run.SectionsProcessed, run.SectionsTotal)
	log.Printf("Sections skipped: %d", run.SectionsSkipped)
	log.Printf("Sections failed: %d", run.SectionsFailed)
	log.Printf("MCQs stored: %d/%d requested", run.McqsStored, run.McqsRequested)
	log.Printf("Total errors: %d", run.TotalErrors)
}
