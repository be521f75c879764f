package main

import (
	"os"
	"os/signal"
	"syscall"

	configs "github.com/cineview/movie-api/config"
	"github.com/cineview/movie-api/internal/handler"
	"github.com/cineview/movie-api/internal/middleware"
	"github.com/cineview/movie-api/internal/repository"
	"github.com/cineview/movie-api/internal/router"
	"github.com/cineview/movie-api/internal/service"
	"github.com/cineview/movie-api/pkg/database"
	"github.com/cineview/movie-api/pkg/logger"
	"github.com/cineview/movie-api/pkg/mail"
	"github.com/cineview/movie-api/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db, config.App.Environment); err != nil {
		// Seed data may already exist, keep starting
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	}

	// Redis backs the rate limiter and the health check; the API stays up
	// without it
	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)

	// Services
	tokenService := service.NewTokenService(config.JWT.Secret, config.JWT.AccessTTL, config.JWT.RefreshTTL)
	mailer := mail.NewSMTPSender(config)
	userService := service.NewUserService(userRepo, tokenService, mailer, config.Mail.ResetBaseURL)
	movieService := service.NewMovieService(movieRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, config.JWT.RefreshTTL)
	userHandler := handler.NewUserHandler(userService)
	movieHandler := handler.NewMovieHandler(movieService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	jwtMiddleware := middleware.NewJWTMiddleware(tokenService, userRepo)

	r := router.NewRouter(
		authHandler,
		userHandler,
		movieHandler,
		healthHandler,

		jwtMiddleware,
		redisClient,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
