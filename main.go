package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"svault/config"
	fileControllers "svault/controllers/files"
	"svault/database"
	authRoutes "svault/routers/authRoutes"
	fileRoutes "svault/routers/fileRoutes"
	"svault/scheduler"
	"svault/storage"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	store, err := storage.NewS3Provider(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	fileControllers.Store = store

	scheduler.StartTokenScheduler(database.Database.Db)

	// Body limit sits above the 100MB file ceiling so oversized uploads
	// reach the validation layer and get a proper error.
	app := fiber.New(fiber.Config{
		BodyLimit: 110 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	fileRoutes.SetupFileRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
