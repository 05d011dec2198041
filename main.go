package main

import (
	"sip/config"
	"sip/database"
	assignmentRoutes "sip/routers/assignmentRoutes"
	gradeRoutes "sip/routers/gradeRoutes"
	journalRoutes "sip/routers/journalRoutes"
	quizRoutes "sip/routers/quizRoutes"
	"sip/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded submission files
	app.Static("/", "./public")

	quizRoutes.SetupQuizRoutes(app)
	assignmentRoutes.SetupAssignmentRoutes(app)
	journalRoutes.SetupJournalRoutes(app)
	gradeRoutes.SetupGradeRoutes(app)

	// Background sweep that closes overdue timed attempts
	scheduler.InitializeAttemptScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
