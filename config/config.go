package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	OpenAIKey         string
	GenerationModel   string // model used for MCQ generation
	FeedbackModel     string // cheaper model used for learning feedback
	LLMTimeoutSeconds int

	ScraperUserAgent      string
	ScraperTimeoutSeconds int
	ScraperDelayMs        int
	ScraperWorkers        int

	GenerationWorkers int
	McqsPerSection    int

	EmailSender string
	Password    string // SMTP Password
}

// Load initializes configuration from environment variables or defaults.
// The returned config is passed explicitly to every component that needs it.
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizlaw"),
		DBPort:     getEnv("DB_PORT", "5432"),

		OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
		GenerationModel:   getEnv("OPENAI_GENERATION_MODEL", "gpt-4-turbo-preview"),
		FeedbackModel:     getEnv("OPENAI_FEEDBACK_MODEL", "gpt-4o-mini"),
		LLMTimeoutSeconds: getEnvInt("OPENAI_TIMEOUT_SECONDS", 60),

		ScraperUserAgent:      getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		ScraperTimeoutSeconds: getEnvInt("SCRAPER_REQUEST_TIMEOUT", 30),
		ScraperDelayMs:        getEnvInt("SCRAPER_DELAY_MS", 500),
		ScraperWorkers:        getEnvInt("SCRAPER_WORKERS", 3),

		GenerationWorkers: getEnvInt("GENERATION_WORKERS", 3),
		McqsPerSection:    getEnvInt("MCQS_PER_SECTION", 2),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set. MCQ generation and feedback will fail.")
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
