package service

import (
	"context"
	"errors"

	"github.com/cineview/movie-api/internal/dto"
	apperrors "github.com/cineview/movie-api/internal/errors"
	"github.com/cineview/movie-api/internal/model"
	ctxutil "github.com/cineview/movie-api/pkg/context"
	"github.com/cineview/movie-api/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MovieService struct {
	movies MovieStore
	users  UserStore
}

func NewMovieService(movies MovieStore, users UserStore) *MovieService {
	return &MovieService{
		movies: movies,
		users:  users,
	}
}

func toMovieResponse(movie *model.Movie) dto.MovieResponse {
	actors := make([]string, len(movie.Actors))
	copy(actors, movie.Actors)

	likes := make([]uint, len(movie.Likes))
	copy(likes, movie.Likes)

	return dto.MovieResponse{
		ID:           movie.ID,
		Name:         movie.Name,
		PremiereDate: movie.PremiereDate,
		Category:     movie.Category,
		Director:     movie.Director,
		Actors:       actors,
		Description:  movie.Description,
		Image:        movie.Image,
		Likes:        likes,
		CreatedAt:    movie.CreatedAt,
		UpdatedAt:    movie.UpdatedAt,
	}
}

func (s *MovieService) Create(ctx context.Context, req *dto.CreateMovieRequest) (*dto.MovieResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Create")

	movie := &model.Movie{
		Name:         req.Name,
		PremiereDate: req.PremiereDate,
		Category:     req.Category,
		Director:     req.Director,
		Actors:       datatypes.NewJSONSlice(req.Actors),
		Description:  req.Description,
		Image:        req.Image,
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toMovieResponse(movie)
	return &response, nil
}

func (s *MovieService) Update(ctx context.Context, id uint, req *dto.UpdateMovieRequest) (*dto.MovieResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Update")

	if _, err := s.movies.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.PremiereDate != nil {
		fields["premiere_date"] = *req.PremiereDate
	}
	if req.Category != "" {
		fields["category"] = req.Category
	}
	if req.Director != "" {
		fields["director"] = req.Director
	}
	if len(req.Actors) > 0 {
		fields["actors"] = datatypes.NewJSONSlice(req.Actors)
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Image != "" {
		fields["image"] = req.Image
	}

	if len(fields) > 0 {
		if err := s.movies.UpdateFields(ctx, id, fields); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	updated, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Movie updated").
		Uint("movie_id", id).
		Log()

	response := toMovieResponse(updated)
	return &response, nil
}

// Delete removes a movie; deleting an unknown id is a no-op success
func (s *MovieService) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Delete")

	if err := s.movies.Delete(ctx, id); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

func (s *MovieService) GetByID(ctx context.Context, id uint) (*dto.MovieResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByID")

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toMovieResponse(movie)
	return &response, nil
}

func (s *MovieService) GetAll(ctx context.Context) ([]dto.MovieResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetAll")

	movies, err := s.movies.GetAll(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.MovieResponse, 0, len(movies))
	for i := range movies {
		responses = append(responses, toMovieResponse(&movies[i]))
	}

	return responses, nil
}

// removeID drops the first occurrence of id from the set
func removeID(set []uint, id uint) []uint {
	for i, v := range set {
		if v == id {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}

// ToggleLike flips the like relation between a user and a movie on both
// sides. Each side's toggle decision is computed from its own membership
// test before either document is mutated, so sides that start equal stay
// equal. The two writes are separate store calls with no transaction; a
// crash between them leaves the sides apart, and the operation still
// reports a single success.
func (s *MovieService) ToggleLike(ctx context.Context, movieID, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ToggleLike")

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Both membership tests happen before any mutation
	isLiked := user.HasFavorite(movieID)
	movieHasLike := movie.LikedBy(userID)

	if movieHasLike {
		movie.Likes = removeID(movie.Likes, userID)
	} else {
		movie.Likes = append(movie.Likes, userID)
	}

	if isLiked {
		user.FavoriteMovies = removeID(user.FavoriteMovies, movieID)
	} else {
		user.FavoriteMovies = append(user.FavoriteMovies, movieID)
	}

	if err := s.movies.Save(ctx, movie); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Like toggled").
		Uint("movie_id", movieID).
		Uint("user_id", userID).
		Bool("liked", !isLiked).
		Log()

	response := toUserResponse(user)
	return &response, nil
}
