package handler

import (
	"errors"
	"net/http"

	"github.com/cineview/movie-api/internal/constants"
	"github.com/cineview/movie-api/internal/dto"
	apperrors "github.com/cineview/movie-api/internal/errors"
	"github.com/cineview/movie-api/internal/service"
	ctxutil "github.com/cineview/movie-api/pkg/context"
	"github.com/cineview/movie-api/pkg/logger"
	"github.com/cineview/movie-api/pkg/validation"
	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	movieService *service.MovieService
}

func NewMovieHandler(movieService *service.MovieService) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
	}
}

func (h *MovieHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "CreateMovie")

	var req dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	movie, err := h.movieService.Create(ctx, &req)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create movie").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpdateMovie")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	movie, err := h.movieService.Update(ctx, id, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "DeleteMovie")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.movieService.Delete(ctx, id); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Movie deleted"))
}

func (h *MovieHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetMovie")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	movie, err := h.movieService.GetByID(ctx, id)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetMovies")

	movies, err := h.movieService.GetAll(ctx)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list movies").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, movies)
}

// ToggleLike flips the like relation between the movie and the user named
// in the path, answering with the updated user
func (h *MovieHandler) ToggleLike(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ToggleLike")

	movieID, ok := parseIDParam(c, "movieId")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.movieService.ToggleLike(ctx, movieID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMovieNotFound) || errors.Is(err, apperrors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound,
				constants.BuildErrorResponse("Movie or user not found.", nil))
			return
		}
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, user)
}
