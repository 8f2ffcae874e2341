package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/wellpath/wellpath-api/internal/config"
	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/routes"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	if err := database.Seed(); err != nil {
		log.Fatalf("failed to seed taxonomy: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "wellpath-api",
		BodyLimit: 32 * 1024 * 1024, // progress photos
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Static("/uploads", cfg.UploadDir)

	routes.Setup(app)

	log.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
