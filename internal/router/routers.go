package router

import (
	"github.com/cineview/movie-api/config"
	"github.com/cineview/movie-api/internal/constants"
	"github.com/cineview/movie-api/internal/handler"
	"github.com/cineview/movie-api/internal/middleware"
	"github.com/cineview/movie-api/pkg/redis"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler
	movieHandler  *handler.MovieHandler
	healthHandler *handler.HealthHandler

	jwtMw       *middleware.JWTMiddleware
	redisClient *redis.Client
	Config      *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	movie *handler.MovieHandler,
	health *handler.HealthHandler,

	jwtMw *middleware.JWTMiddleware,
	redisClient *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		userHandler:   user,
		movieHandler:  movie,
		healthHandler: health,

		jwtMw:       jwtMw,
		redisClient: redisClient,
		Config:      cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS(r.Config.App.CORSOrigin))
	router.Use(middleware.RequestContext("api"))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		r.userRoutes(api)
		r.movieRoutes(api)
	}

	return router
}
