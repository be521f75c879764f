package router

import (
	"github.com/cineview/movie-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) userRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		// Credential routes carry a per-IP rate limit; everything here is
		// reachable without a bearer token
		limited := users.Group("")
		if r.redisClient != nil {
			limited.Use(middleware.RateLimit(r.redisClient,
				r.Config.RateLimit.Request, r.Config.RateLimit.Duration))
		}
		{
			limited.POST("/register", r.authHandler.Register)
			limited.POST("/login", r.authHandler.Login)
			limited.POST("/refreshtoken", r.authHandler.RefreshToken)
			limited.POST("/forgotpassword", r.authHandler.ForgotPassword)
			limited.PUT("/resetpassword", r.authHandler.ResetPassword)
		}

		users.GET("/logout", r.authHandler.Logout)

		protected := users.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.GET("/:id", r.userHandler.GetByID)
			protected.PUT("/:id", r.userHandler.Update)

			admin := protected.Group("")
			admin.Use(r.jwtMw.RequireAdmin())
			{
				admin.GET("", r.userHandler.GetAll)
				admin.DELETE("/:id", r.userHandler.Delete)
			}
		}
	}
}
