package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/maumlog/maumlog-backend/internal/handlers"
	"github.com/maumlog/maumlog-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	QuestionHandler *handlers.QuestionHandler
	AnswerHandler   *handlers.AnswerHandler
	AnalysisHandler *handlers.AnalysisHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Questions and answers
	protected.POST("/questions", cfg.QuestionHandler.Generate)
	protected.GET("/questions/:id", cfg.QuestionHandler.Get)
	protected.POST("/answers", cfg.AnswerHandler.Submit)
	protected.GET("/answers", cfg.AnswerHandler.List)
	// Analysis
	protected.GET("/analysis/user-type", cfg.AnalysisHandler.GetUserType)
	protected.GET("/analysis/axis-commentary/:axis", cfg.AnalysisHandler.GetAxisCommentary)
	protected.GET("/analysis/personalized-advice", cfg.AnalysisHandler.GetPersonalizedAdvice)
	protected.PATCH("/analysis/refresh", cfg.AnalysisHandler.RequestRefresh)
	// Value map
	protected.GET("/value-map", cfg.AnalysisHandler.GetValueMap)
	protected.GET("/value-map/top-values", cfg.AnalysisHandler.GetTopValues)
	protected.GET("/value-map/history", cfg.AnalysisHandler.GetValueHistory)

	return router
}
