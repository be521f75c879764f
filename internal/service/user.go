package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cineview/movie-api/internal/dto"
	apperrors "github.com/cineview/movie-api/internal/errors"
	"github.com/cineview/movie-api/internal/model"
	ctxutil "github.com/cineview/movie-api/pkg/context"
	"github.com/cineview/movie-api/pkg/logger"
	"github.com/cineview/movie-api/pkg/mail"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// resetTokenTTL is how long a password-reset window stays open
const resetTokenTTL = 15 * time.Minute

type UserService struct {
	users        UserStore
	tokens       *TokenService
	mailer       mail.Sender
	resetBaseURL string

	// now is swappable in tests to simulate expiry
	now func() time.Time
}

func NewUserService(users UserStore, tokens *TokenService, mailer mail.Sender, resetBaseURL string) *UserService {
	return &UserService{
		users:        users,
		tokens:       tokens,
		mailer:       mailer,
		resetBaseURL: resetBaseURL,
		now:          time.Now,
	}
}

// hashPassword hashes password using bcrypt
func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	favorites := make([]uint, len(user.FavoriteMovies))
	copy(favorites, user.FavoriteMovies)

	return dto.UserResponse{
		ID:             user.ID,
		UserName:       user.UserName,
		Email:          user.Email,
		BirthDay:       user.BirthDay,
		Gender:         user.Gender,
		Mobile:         user.Mobile,
		Address:        user.Address,
		FavoriteMovies: favorites,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// Register creates a new account and hands back the created user together
// with a fresh access token
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	logger.InfoWithContext(ctx, "Registering new user").
		String("email", email).
		String("user_name", req.UserName).
		Log()

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		logger.WarnWithContext(ctx, "Registration rejected: email already exists").
			String("email", email).
			Log()
		return nil, apperrors.ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		UserName: strings.TrimSpace(req.UserName),
		Email:    email,
		Password: hashedPassword,
		BirthDay: req.BirthDay,
		Gender:   req.Gender,
		Mobile:   strings.TrimSpace(req.Mobile),
		Address:  strings.TrimSpace(req.Address),
	}

	if err := s.users.Create(ctx, user); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return &dto.RegisterResponse{
		UserResponse: toUserResponse(user),
		Token:        token,
	}, nil
}

// Login authenticates, issues both tokens and stores the refresh token on
// the record, overwriting any previous session
func (s *UserService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	logger.InfoWithContext(ctx, "User login attempt").
		String("email", email).
		Log()

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed: unknown email").
				String("email", email).
				Log()
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, password) {
		logger.WarnWithContext(ctx, "Login failed: incorrect password").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return nil, "", apperrors.ErrIncorrectPassword
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged in").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return &dto.LoginResponse{
		UserData:    toUserResponse(user),
		AccessToken: accessToken,
	}, refreshToken, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. The
// token must both verify and exactly match the one stored on a user record,
// so a rotated or cleared token fails even when validly signed. The refresh
// token itself is not rotated.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RefreshAccessToken")

	if _, err := s.tokens.ValidateToken(refreshToken); err != nil {
		logger.WarnWithContext(ctx, "Refresh token failed verification").
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrRefreshNotMatched, err)
	}

	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Refresh token not matched to any user").
				Log()
			return "", apperrors.ErrRefreshNotMatched
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Access token refreshed").
		Uint("user_id", user.ID).
		Log()

	return accessToken, nil
}

// Logout clears the stored refresh token on whichever user holds the exact
// supplied value. Nobody holding it is a benign no-op.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if err := s.users.ClearRefreshTokenByValue(ctx, refreshToken); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").Log()
	return nil
}

// ForgotPassword opens a 15-minute reset window and emails the raw token.
// Issuing a new token overwrites any previous window.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ForgotPassword")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Forgot password for unknown email").
				String("email", email).
				Log()
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	rawToken, err := s.tokens.GenerateResetToken()
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	expires := s.now().Add(resetTokenTTL)
	if err := s.users.SetPasswordReset(ctx, user.ID, s.tokens.HashResetToken(rawToken), expires); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	body, err := mail.RenderResetMail(mail.ResetMailData{
		UserName:  user.UserName,
		ResetURL:  mail.ResetURL(s.resetBaseURL, rawToken),
		ExpiresIn: int(resetTokenTTL.Minutes()),
	})
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.mailer.Send(ctx, user.Email, "Reset your password", body); err != nil {
		logger.ErrorWithContext(ctx, "Failed to deliver reset email").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrMailSend, err)
	}

	logger.InfoWithContext(ctx, "Password reset email dispatched").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ResetPassword redeems a raw reset token inside its window. Success
// consumes the window; an expired window simply never matches.
func (s *UserService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ResetPassword")

	tokenHash := s.tokens.HashResetToken(rawToken)

	user, err := s.users.FindByResetTokenHash(ctx, tokenHash, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Reset attempted with invalid or expired token").
				Log()
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.CompletePasswordReset(ctx, user.ID, hashedPassword, s.now()); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password reset completed").
		Uint("user_id", user.ID).
		Log()

	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByID")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toUserResponse(user)
	return &response, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetAll")

	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}

	return responses, nil
}

// Update applies a partial profile update; an empty body is rejected
func (s *UserService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Update")

	if req.IsEmpty() {
		return nil, apperrors.ErrEmptyUpdate
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	fields := map[string]any{}
	if req.UserName != "" {
		fields["user_name"] = strings.TrimSpace(req.UserName)
	}
	if req.BirthDay != "" {
		fields["birth_day"] = req.BirthDay
	}
	if req.Gender != "" {
		fields["gender"] = req.Gender
	}
	if req.Mobile != "" {
		fields["mobile"] = strings.TrimSpace(req.Mobile)
	}
	if req.Address != "" {
		fields["address"] = strings.TrimSpace(req.Address)
	}

	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User profile updated").
		Uint("user_id", id).
		Log()

	response := toUserResponse(updated)
	return &response, nil
}

// Delete removes a user permanently (admin only, enforced by middleware)
func (s *UserService) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Delete")

	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}
