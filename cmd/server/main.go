package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/internal/handlers"
	"github.com/mhnazary/school-managment-system/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config.ConnectDB()
	config.ConnectRedis()
	config.MigrateDB()
	config.SeedUsers()

	handlers.RegisterValidators()

	r := gin.Default()
	routes.SetupRoutes(r)

	port := config.Getenv("PORT", "5000")
	slog.Info("server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
