package repository

import (
	"context"
	"time"

	"github.com/cineview/movie-api/internal/model"
	ctxutil "github.com/cineview/movie-api/pkg/context"
	"github.com/cineview/movie-api/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			Uint("user_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByEmail")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAll")

	start := time.Now()
	var users []model.User

	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Users retrieved").
		Int("count", len(users)).
		Duration(time.Since(start)).
		Log()

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(time.Since(start)).
		Log()

	return nil
}

// UpdateFields applies a partial update to the user row
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateFields")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// Save persists the whole user document, favorite set included
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Save")

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to save user").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return err
	}

	return nil
}

// UpdateRefreshToken overwrites the stored refresh token; an empty value
// clears it
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uint, token string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateRefreshToken")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("refresh_token", token)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// FindByRefreshToken looks up the user whose stored refresh token exactly
// matches the supplied one. A rotated or cleared token finds nobody.
func (r *UserRepository) FindByRefreshToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByRefreshToken")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("refresh_token = ? AND refresh_token <> ''", token).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

// ClearRefreshTokenByValue clears the stored token on whichever user holds
// it. Zero affected rows is not an error: logout is a benign no-op when the
// token no longer matches anyone.
func (r *UserRepository) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "ClearRefreshTokenByValue")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("refresh_token = ? AND refresh_token <> ''", token).
		Update("refresh_token", "")
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to clear refresh token").
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Refresh token cleared").
		Int64("affected", result.RowsAffected).
		Log()

	return nil
}

// SetPasswordReset opens a reset window, overwriting any previous one
func (r *UserRepository) SetPasswordReset(ctx context.Context, id uint, tokenHash string, expires time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "SetPasswordReset")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"password_reset_token":   tokenHash,
			"password_reset_expires": expires,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to store reset token").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// FindByResetTokenHash finds the user holding a still-valid reset token.
// Expired windows simply never match; there is no cleanup job.
func (r *UserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByResetTokenHash")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_token <> '' AND password_reset_expires > ?", tokenHash, now).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

// CompletePasswordReset consumes the reset window: new password in, token
// fields out, change timestamp recorded
func (r *UserRepository) CompletePasswordReset(ctx context.Context, id uint, hashedPassword string, changedAt time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CompletePasswordReset")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"password":               hashedPassword,
			"password_reset_token":   "",
			"password_reset_expires": nil,
			"password_changed_at":    changedAt,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to complete password reset").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).Unscoped().Delete(&model.User{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete user").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("user_id", id).
		Int64("affected", result.RowsAffected).
		Log()

	return nil
}
