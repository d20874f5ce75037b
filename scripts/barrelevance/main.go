package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/store"
)

func main() {
	division := flag.String("division", "", "Division whose sections to mark")
	file := flag.String("file", "", "File with one bar-relevant section number per line")
	flag.Parse()

	if *division == "" || *file == "" {
		log.Fatal("Usage: go run scripts/barrelevance/main.go -division <division> -file <numbers.txt>")
	}

	// Load config and connect to database
	cfg := config.Load()
	database.ConnectDb(cfg)

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open section number file: %v", err)
	}
	defer f.Close()

	numbers := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		numbers = append(numbers, line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read section number file: %v", err)
	}

	log.Printf("Marking %d section numbers as bar relevant in %s...", len(numbers), *division)

	result, err := store.UpdateBarRelevance(database.Database.Db, *division, numbers)
	if err != nil {
		log.Fatalf("Bar relevance update failed: %v", err)
	}

	log.Printf("=== Bar Relevance Update Complete ===")
	log.Printf("Marked relevant: %d", result.MarkedRelevant)
	log.Printf("Marked irrelevant: %d", result.MarkedIrrelevant)
	if len(result.Unmatched) > 0 {
		log.Printf("Unmatched section numbers: %v", result.Unmatched)
	}
}
