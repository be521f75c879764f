package service

import (
	"context"
	"time"

	"github.com/cineview/movie-api/internal/model"
)

// UserStore is the persistence capability the user service needs: lookups by
// id, unique-indexed email, and exact token values, plus document updates.
// Not-found is signaled with gorm.ErrRecordNotFound.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error

	UpdateRefreshToken(ctx context.Context, id uint, token string) error
	FindByRefreshToken(ctx context.Context, token string) (*model.User, error)
	ClearRefreshTokenByValue(ctx context.Context, token string) error

	SetPasswordReset(ctx context.Context, id uint, tokenHash string, expires time.Time) error
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	CompletePasswordReset(ctx context.Context, id uint, hashedPassword string, changedAt time.Time) error
}

// MovieStore is the persistence capability the movie service needs
type MovieStore interface {
	GetByID(ctx context.Context, id uint) (*model.Movie, error)
	GetAll(ctx context.Context) ([]model.Movie, error)
	Create(ctx context.Context, movie *model.Movie) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Save(ctx context.Context, movie *model.Movie) error
	Delete(ctx context.Context, id uint) error
}
