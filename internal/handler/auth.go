package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/cineview/movie-api/internal/constants"
	"github.com/cineview/movie-api/internal/dto"
	apperrors "github.com/cineview/movie-api/internal/errors"
	"github.com/cineview/movie-api/internal/service"
	ctxutil "github.com/cineview/movie-api/pkg/context"
	"github.com/cineview/movie-api/pkg/logger"
	"github.com/cineview/movie-api/pkg/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *service.UserService
	refreshTTL  time.Duration
}

func NewAuthHandler(userService *service.UserService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		refreshTTL:  refreshTTL,
	}
}

// setRefreshCookie stores the refresh token in an httpOnly cookie scoped
// to the whole site, expiring together with the token itself. SPA clients
// never see the value from script.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, refreshToken string) {
	c.SetCookie(constants.CookieRefreshToken, refreshToken,
		int(h.refreshTTL.Seconds()), "/", "", false, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/", "", false, true)
}

// Register handles account creation
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid register request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	response, err := h.userService.Register(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse("Registration failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, response)
}

// Login authenticates and plants the refresh-token cookie
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	response, refreshToken, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse("Authentication failed", apperrors.GetErrorMessage(err)))
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusOK, response)
}

// Logout clears the stored refresh token and the cookie. A cookie that no
// user holds still logs the caller out.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Logout")

	refreshToken, err := c.Cookie(constants.CookieRefreshToken)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse("No refresh token in cookies", nil))
		return
	}

	if err := h.userService.Logout(ctx, refreshToken); err != nil {
		logger.ErrorWithContext(ctx, "Logout failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse("Logout failed", apperrors.GetErrorMessage(err)))
		return
	}

	clearRefreshCookie(c)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logged out successfully"))
}

// RefreshToken exchanges the cookie's refresh token for a fresh access
// token. A verified-but-unmatched token answers 200 with success false,
// never a 4xx.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "RefreshToken")

	refreshToken, err := c.Cookie(constants.CookieRefreshToken)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse("No refresh token in cookies", nil))
		return
	}

	accessToken, err := h.userService.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshNotMatched) {
			c.JSON(http.StatusOK, constants.BuildStatusResponse(false, "Refresh token not matched"))
			return
		}
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse("Token refresh failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, dto.RefreshTokenResponse{
		Success:        true,
		NewAccessToken: accessToken,
	})
}

// ForgotPassword opens a reset window and emails the raw token. Mail
// transport failure reports success false on a 200 so the caller can
// retry.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ForgotPassword")

	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	if err := h.userService.ForgotPassword(ctx, req.Email); err != nil {
		if errors.Is(err, apperrors.ErrMailSend) {
			c.JSON(http.StatusOK, constants.BuildStatusResponse(false, "Email could not be sent"))
			return
		}
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse("Forgot password failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Reset email sent"))
}

// ResetPassword redeems a raw reset token for a new password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ResetPassword")

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	if err := h.userService.ResetPassword(ctx, req.Token, req.Password); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err),
			constants.BuildErrorResponse("Password reset failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Password has been reset"))
}
