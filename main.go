package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/shuddl/quizlaw/config"
	"github.com/shuddl/quizlaw/database"
	"github.com/shuddl/quizlaw/generator"
	"github.com/shuddl/quizlaw/llm"
	"github.com/shuddl/quizlaw/routers/adminRoutes"
	"github.com/shuddl/quizlaw/routers/authRoutes"
	"github.com/shuddl/quizlaw/routers/quizRoutes"
	"github.com/shuddl/quizlaw/routers/userRoutes"
	"github.com/shuddl/quizlaw/scraper"
	"github.com/shuddl/quizlaw/utils"
)

func main() {
	cfg := config.Load()
	database.ConnectDb(cfg)

	llmClient := llm.New(cfg)
	scraperService := scraper.New(database.Database.Db, cfg)
	generatorService := generator.New(database.Database.Db, llmClient, cfg)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app, cfg)
	quizRoutes.SetupQuizRoutes(app, cfg)
	userRoutes.SetupUserRoutes(app, cfg, llmClient)
	adminRoutes.SetupAdminRoutes(app, cfg, generatorService, scraperService)

	utils.InitGenerationScheduler(database.Database.Db)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
