package main

import (
	"fmt"
	"os"

	"github.com/ekalavya-cmd/studbud-backend/internal/db"
	"github.com/ekalavya-cmd/studbud-backend/internal/handlers"
	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/repos"
	"github.com/ekalavya-cmd/studbud-backend/internal/server"
	"github.com/ekalavya-cmd/studbud-backend/internal/services"
	"github.com/ekalavya-cmd/studbud-backend/internal/suggest"
	"github.com/ekalavya-cmd/studbud-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := databaseService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userProfileRepo := repos.NewUserProfileRepo(theDB, log)

	// Suggestion pipeline
	log.Info("Setting up suggestion pipeline from main...")
	gateway := suggest.NewInferenceGateway(log)
	formatter := suggest.NewFormatter(log, gateway)
	suggestionCache, err := suggest.NewRedisCache(log)
	if err != nil {
		log.Warn("Redis cache unavailable, persisted cache only", "error", err)
		suggestionCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	userDataService := services.NewUserDataService(log, userProfileRepo)
	suggestionService := services.NewSuggestionService(log, userProfileRepo, formatter, suggestionCache)

	// Handlers
	log.Info("Setting up handlers from main...")
	userDataHandler := handlers.NewUserDataHandler(userDataService)
	plannerHandler := handlers.NewPlannerHandler(userDataService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)

	// Router
	log.Info("Setting up router from main...")
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:    allowedOrigins,
		UserDataHandler:   userDataHandler,
		PlannerHandler:    plannerHandler,
		SuggestionHandler: suggestionHandler,
	})

	port := utils.GetEnv("PORT", "5000", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
