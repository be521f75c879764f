package router

import "github.com/gin-gonic/gin"

func (r *Router) movieRoutes(api *gin.RouterGroup) {
	movie := api.Group("/movie")
	{
		movie.POST("", r.movieHandler.Create)
		movie.GET("", r.movieHandler.GetAll)
		movie.GET("/:id", r.movieHandler.GetByID)
		movie.PUT("/:id", r.movieHandler.Update)
		movie.DELETE("/:id", r.movieHandler.Delete)

		movie.PATCH("/toggle-like/:movieId/:userId", r.movieHandler.ToggleLike)
	}
}
