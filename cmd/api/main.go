// @title AI Quizzer API
// @version 1.0
// @description AI-powered quiz generation and assessment API.
// @host localhost:4000
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/adapter"
	"github.com/Neel-Ganatra/playpower/internal/adapter/aigen"
	"github.com/Neel-Ganatra/playpower/internal/adapter/mailer"
	"github.com/Neel-Ganatra/playpower/internal/cache"
	"github.com/Neel-Ganatra/playpower/internal/config"
	"github.com/Neel-Ganatra/playpower/internal/database"
	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/handler"
	"github.com/Neel-Ganatra/playpower/internal/logger"
	"github.com/Neel-Ganatra/playpower/internal/middleware"
	"github.com/Neel-Ganatra/playpower/internal/repository"
	"github.com/Neel-Ganatra/playpower/internal/service"
	"github.com/Neel-Ganatra/playpower/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepository := repository.NewSQLXUserRepository(db)
	quizRepository := repository.NewSQLXQuizRepository(db)
	submissionRepository := repository.NewSQLXSubmissionRepository(db)

	// Initialize question/hint/suggestion generation. Without an API key the
	// deterministic offline generator serves everything.
	var questionGen domain.QuestionGenerator
	var hintGen domain.HintGenerator
	var suggestionGen domain.SuggestionGenerator
	if cfg.AI.APIKey != "" {
		groq, err := aigen.NewGroqGenerator(cfg.AI)
		if err != nil {
			appLogger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		appLogger.Info("Groq generator initialized",
			zap.String("base_url", cfg.AI.BaseURL), zap.String("model", cfg.AI.Model))
		questionGen, hintGen, suggestionGen = groq, groq, groq
	} else {
		fallback := aigen.NewFallbackGenerator()
		appLogger.Warn("No AI API key configured, using offline question generator")
		questionGen, hintGen, suggestionGen = fallback, fallback, fallback
	}

	// Initialize Redis. The cache is optional: a failed connection degrades
	// the leaderboard to database-only reads.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, leaderboard caching disabled", zap.Error(err))
	} else {
		appLogger.Info("Successfully connected to Redis")
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		defer redisClient.Close()
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)
	if !smtpMailer.IsConfigured() {
		appLogger.Warn("Email service not configured, result emails will return warnings")
	}

	// Initialize services
	authService, err := service.NewAuthService(userRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	quizService := service.NewQuizService(
		userRepository, quizRepository, submissionRepository,
		questionGen, hintGen, suggestionGen,
		smtpMailer, cacheAdapter, cfg.Cache.LeaderboardTTL,
	)

	// Initialize handlers
	validator := validation.NewValidator()
	authHandler := handler.NewAuthHandler(authService, validator)
	quizHandler := handler.NewQuizHandler(quizService, validator)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Liveness: the database must answer; a dead cache only degrades.
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "database": "up"}
		if err := db.PingContext(c.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
		}
		switch {
		case cacheAdapter == nil:
			status["cache"] = "disabled"
		case cacheAdapter.Ping(c.Context()) != nil:
			status["cache"] = "down"
		default:
			status["cache"] = "up"
		}
		return c.JSON(status)
	})

	// Auth routes
	authGroup := app.Group("/auth")
	authGroup.Post("/login", authHandler.Login)

	// Quiz routes (all protected)
	quizGroup := app.Group("/quiz", middleware.Protected(authService))
	quizGroup.Post("/create", quizHandler.CreateQuiz)
	quizGroup.Get("/history", quizHandler.GetHistory)
	quizGroup.Get("/analytics", quizHandler.GetAnalytics)
	quizGroup.Get("/leaderboard", quizHandler.GetLeaderboard)
	quizGroup.Post("/send-email", quizHandler.SendResultsEmail)
	quizGroup.Get("/submission/:id", quizHandler.GetSubmission)
	quizGroup.Post("/:id/submit", quizHandler.SubmitQuiz)
	quizGroup.Post("/:id/retry", quizHandler.RetryQuiz)
	quizGroup.Post("/:quizId/question/:questionId/hint", quizHandler.GetHint)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
