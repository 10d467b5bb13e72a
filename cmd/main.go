package main

import (
	"context"
	"fmt"
	"os"

	"github.com/maumlog/maumlog-backend/internal/clients/openai"
	"github.com/maumlog/maumlog-backend/internal/db"
	"github.com/maumlog/maumlog-backend/internal/handlers"
	"github.com/maumlog/maumlog-backend/internal/inventory"
	"github.com/maumlog/maumlog-backend/internal/jobs"
	"github.com/maumlog/maumlog-backend/internal/llm"
	"github.com/maumlog/maumlog-backend/internal/middleware"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/server"
	"github.com/maumlog/maumlog-backend/internal/services"
	"github.com/maumlog/maumlog-backend/internal/utils"
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

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	answerRepo := repos.NewAnswerRepo(thePG, log)
	valueScoreRepo := repos.NewValueScoreRepo(thePG, log)
	valueMapRepo := repos.NewValueMapRepo(thePG, log)
	analysisRepo := repos.NewAnalysisRepo(thePG, log)
	jobRunRepo := repos.NewJobRunRepo(thePG, log)

	// Model gateway
	log.Info("Setting up model gateway...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	gateway := llm.NewGateway(openaiClient, log)
	engine := inventory.NewEngine(gateway, log)

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(thePG, log, userRepo)
	valueMapService := services.NewValueMapService(thePG, log, gateway, valueMapRepo, valueScoreRepo)
	extractService := services.NewValueExtractService(thePG, log, gateway, questionRepo, answerRepo, valueScoreRepo, valueMapService)
	analysisService := services.NewAnalysisService(thePG, log, gateway, engine, userRepo, answerRepo, analysisRepo, jobRunRepo)
	answerService := services.NewAnswerService(thePG, log, answerRepo, questionRepo, extractService, analysisService)
	questionService := services.NewQuestionService(thePG, log, gateway, questionRepo, answerRepo)

	// Background worker
	log.Info("Setting up job worker...")
	registry := jobs.NewRegistry()
	if err := registry.Register(jobs.NewAnalysisRefreshHandler(analysisService, valueMapService)); err != nil {
		log.Error("Could not register job handler", "error", err)
		os.Exit(1)
	}
	worker := jobs.NewWorker(thePG, log, jobRunRepo, registry)
	worker.Start(context.Background())

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(authService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	answerHandler := handlers.NewAnswerHandler(answerService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, valueMapService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		QuestionHandler: questionHandler,
		AnswerHandler:   answerHandler,
		AnalysisHandler: analysisHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
