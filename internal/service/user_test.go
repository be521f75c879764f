package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cineview/movie-api/internal/dto"
	apperrors "github.com/cineview/movie-api/internal/errors"
	"github.com/cineview/movie-api/internal/model"
	"github.com/cineview/movie-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	logger.InitTestLogger()
}

func newTestUserService(store *fakeUserStore, mailer *fakeMailer) *UserService {
	if mailer == nil {
		mailer = &fakeMailer{}
	}
	return NewUserService(store, newTestTokenService(), mailer, "http://localhost:3000/resetpassword")
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func seedUser(t *testing.T, store *fakeUserStore, email, password string) *model.User {
	t.Helper()
	return store.add(&model.User{
		UserName: "tester",
		Email:    email,
		Password: mustHash(t, password),
	})
}

func TestRegisterCreatesUserWithToken(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestUserService(store, nil)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "bob",
		Email:    "Bob@Example.com",
		Password: "Secret@123",
		Gender:   "male",
	})
	require.NoError(t, err)

	assert.Equal(t, "bob", resp.UserName)
	assert.Equal(t, "bob@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	// The token identifies the new user
	claims, err := newTestTokenService().ValidateToken(resp.Token)
	require.NoError(t, err)
	userID, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, resp.ID, userID)

	// Password is persisted hashed, never verbatim
	stored, err := store.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret@123", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "taken@example.com", "pw")
	svc := newTestUserService(store, nil)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "imposter",
		Email:    "taken@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)

	users, _ := store.GetAll(context.Background())
	assert.Len(t, users, 1)
}

func TestLoginIssuesTokensAndStoresRefresh(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "Secret@123")
	svc := newTestUserService(store, nil)

	resp, refreshToken, err := svc.Login(context.Background(), "alice@example.com", "Secret@123")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, user.ID, resp.UserData.ID)

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, refreshToken, stored.RefreshToken)
}

func TestLoginOverwritesPreviousRefreshToken(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "Secret@123")
	svc := newTestUserService(store, nil)

	_, firstRefresh, err := svc.Login(context.Background(), "alice@example.com", "Secret@123")
	require.NoError(t, err)

	_, secondRefresh, err := svc.Login(context.Background(), "alice@example.com", "Secret@123")
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, secondRefresh, stored.RefreshToken)

	// The superseded token no longer refreshes
	if firstRefresh != secondRefresh {
		_, err = svc.RefreshAccessToken(context.Background(), firstRefresh)
		assert.ErrorIs(t, err, apperrors.ErrRefreshNotMatched)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestUserService(newFakeUserStore(), nil)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestLoginWrongPasswordLeavesNoSession(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "Secret@123")
	svc := newTestUserService(store, nil)

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)
}

func TestRefreshAccessTokenHappyPath(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "alice@example.com", "Secret@123")
	svc := newTestUserService(store, nil)

	_, refreshToken, err := svc.Login(context.Background(), "alice@example.com", "Secret@123")
	require.NoError(t, err)

	accessToken, err := svc.RefreshAccessToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	// No rotation: the same refresh token keeps working
	again, err := svc.RefreshAccessToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, again)
}

func TestRefreshAccessTokenRejectsUnmatchedToken(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "Secret@123")
	svc := newTestUserService(store, nil)

	// Validly signed but never persisted on any record
	stray, err := svc.tokens.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	_, err = svc.RefreshAccessToken(context.Background(), stray)
	assert.ErrorIs(t, err, apperrors.ErrRefreshNotMatched)
}

func TestRefreshAccessTokenRejectsBadSignature(t *testing.T) {
	svc := newTestUserService(newFakeUserStore(), nil)

	_, err := svc.RefreshAccessToken(context.Background(), "mangled-token")
	assert.ErrorIs(t, err, apperrors.ErrRefreshNotMatched)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "Secret@123")
	svc := newTestUserService(store, nil)

	_, refreshToken, err := svc.Login(context.Background(), "alice@example.com", "Secret@123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), refreshToken))

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	_, err = svc.RefreshAccessToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshNotMatched)
}

func TestLogoutUnknownTokenIsNoOp(t *testing.T) {
	svc := newTestUserService(newFakeUserStore(), nil)
	assert.NoError(t, svc.Logout(context.Background(), "nobody-holds-this"))
}

func TestForgotPasswordStoresHashAndMailsRawToken(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "Secret@123")
	mailer := &fakeMailer{}
	svc := newTestUserService(store, mailer)

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	require.NoError(t, svc.ForgotPassword(context.Background(), "alice@example.com"))

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordResetToken)
	require.NotNil(t, stored.PasswordResetExpires)
	assert.Equal(t, issuedAt.Add(15*time.Minute), *stored.PasswordResetExpires)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].To)
	// The mail carries the raw token, never the stored hash
	assert.NotContains(t, mailer.sent[0].Body, stored.PasswordResetToken)
	assert.Contains(t, mailer.sent[0].Body, "resetpassword")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newTestUserService(newFakeUserStore(), nil)
	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestForgotPasswordMailFailure(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "alice@example.com", "Secret@123")
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}
	svc := newTestUserService(store, mailer)

	err := svc.ForgotPassword(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, apperrors.ErrMailSend)
}

// resetLifecycle issues a reset window and returns the raw token by
// extracting it from the delivered mail body.
func resetLifecycle(t *testing.T, svc *UserService, store *fakeUserStore, mailer *fakeMailer, user *model.User) string {
	t.Helper()

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	require.Len(t, mailer.sent, 1)

	body := mailer.sent[0].Body
	idx := strings.Index(body, "resetpassword/")
	require.GreaterOrEqual(t, idx, 0)
	rawToken := body[idx+len("resetpassword/") : idx+len("resetpassword/")+64]

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.tokens.HashResetToken(rawToken), stored.PasswordResetToken)

	return rawToken
}

func TestResetPasswordLifecycle(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "OldPass@1")
	mailer := &fakeMailer{}
	svc := newTestUserService(store, mailer)

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	rawToken := resetLifecycle(t, svc, store, mailer, user)

	// Redeem 10 minutes in, still inside the window
	svc.now = func() time.Time { return issuedAt.Add(10 * time.Minute) }
	require.NoError(t, svc.ResetPassword(context.Background(), rawToken, "NewPass@2"))

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, checkPassword(stored.Password, "NewPass@2"))
	assert.False(t, checkPassword(stored.Password, "OldPass@1"))
	assert.Empty(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpires)
	require.NotNil(t, stored.PasswordChangedAt)

	// The window is consumed: redeeming again fails
	err = svc.ResetPassword(context.Background(), rawToken, "Another@3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestResetPasswordExpiredWindow(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "OldPass@1")
	mailer := &fakeMailer{}
	svc := newTestUserService(store, mailer)

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	rawToken := resetLifecycle(t, svc, store, mailer, user)

	// 16 minutes later the window is closed
	svc.now = func() time.Time { return issuedAt.Add(16 * time.Minute) }
	err := svc.ResetPassword(context.Background(), rawToken, "NewPass@2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	stored, getErr := store.GetByID(context.Background(), user.ID)
	require.NoError(t, getErr)
	assert.True(t, checkPassword(stored.Password, "OldPass@1"))
}

func TestResetPasswordBogusToken(t *testing.T) {
	svc := newTestUserService(newFakeUserStore(), nil)
	err := svc.ResetPassword(context.Background(), "deadbeef", "NewPass@2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestNewResetTokenOverwritesPrevious(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "OldPass@1")
	mailer := &fakeMailer{}
	svc := newTestUserService(store, mailer)

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	firstToken := resetLifecycle(t, svc, store, mailer, user)

	mailer.sent = nil
	secondToken := resetLifecycle(t, svc, store, mailer, user)
	require.NotEqual(t, firstToken, secondToken)

	// Only the latest token redeems
	err := svc.ResetPassword(context.Background(), firstToken, "NewPass@2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
	assert.NoError(t, svc.ResetPassword(context.Background(), secondToken, "NewPass@2"))
}

func TestUpdateRejectsEmptyBody(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "pw")
	svc := newTestUserService(store, nil)

	_, err := svc.Update(context.Background(), user.ID, &dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyUpdate)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "pw")
	svc := newTestUserService(store, nil)

	resp, err := svc.Update(context.Background(), user.ID, &dto.UpdateUserRequest{
		UserName: "renamed",
		Mobile:   "0123456789",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", resp.UserName)
	assert.Equal(t, "0123456789", resp.Mobile)
	// Untouched fields keep their values
	assert.Equal(t, "alice@example.com", resp.Email)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc := newTestUserService(newFakeUserStore(), nil)
	_, err := svc.Update(context.Background(), 99, &dto.UpdateUserRequest{UserName: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "alice@example.com", "pw")
	svc := newTestUserService(store, nil)

	require.NoError(t, svc.Delete(context.Background(), user.ID))

	_, err := svc.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = svc.Delete(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserResponseNeverCarriesSecrets(t *testing.T) {
	store := newFakeUserStore()
	user := store.add(&model.User{
		UserName:           "alice",
		Email:              "alice@example.com",
		Password:           "$2-hash",
		RefreshToken:       "refresh",
		PasswordResetToken: "hash",
		IsAdmin:            true,
	})
	svc := newTestUserService(store, nil)

	resp, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.UserName)
	// dto.UserResponse structurally omits password, admin flag and tokens;
	// make sure the profile fields that remain are the ones we expect
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "alice@example.com", resp.Email)
}
