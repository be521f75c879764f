package repository

import (
	"context"
	"time"

	"github.com/cineview/movie-api/internal/model"
	ctxutil "github.com/cineview/movie-api/pkg/context"
	"github.com/cineview/movie-api/pkg/logger"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) GetByID(ctx context.Context, id uint) (*model.Movie, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var movie model.Movie
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&movie)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get movie by ID").
			Uint("movie_id", id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &movie, nil
}

func (r *MovieRepository) GetAll(ctx context.Context) ([]model.Movie, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAll")

	start := time.Now()
	var movies []model.Movie

	if err := r.db.WithContext(ctx).Order("id").Find(&movies).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch movies").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Movies retrieved").
		Int("count", len(movies)).
		Duration(time.Since(start)).
		Log()

	return movies, nil
}

func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(movie)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create movie").
			String("name", movie.Name).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Movie created").
		String("name", movie.Name).
		Uint("movie_id", movie.ID).
		Duration(time.Since(start)).
		Log()

	return nil
}

// UpdateFields applies a partial update to the movie row
func (r *MovieRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateFields")

	result := r.db.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update movie").
			Uint("movie_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// Save persists the whole movie document, like set included
func (r *MovieRepository) Save(ctx context.Context, movie *model.Movie) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Save")

	if err := r.db.WithContext(ctx).Save(movie).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to save movie").
			Uint("movie_id", movie.ID).
			Err(err).
			Log()
		return err
	}

	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).Unscoped().Delete(&model.Movie{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete movie").
			Uint("movie_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Movie deleted").
		Uint("movie_id", id).
		Int64("affected", result.RowsAffected).
		Log()

	return nil
}
