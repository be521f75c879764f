package middleware

import (
	"net/http"
	"strings"

	"github.com/cineview/movie-api/internal/constants"
	"github.com/cineview/movie-api/internal/service"
	ctxutil "github.com/cineview/movie-api/pkg/context"
	"github.com/cineview/movie-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	tokens *service.TokenService
	users  service.UserStore
}

func NewJWTMiddleware(tokens *service.TokenService, users service.UserStore) *JWTMiddleware {
	return &JWTMiddleware{
		tokens: tokens,
		users:  users,
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}

// RequireAuth validates the bearer token and sets user info in context
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		claims, err := m.tokens.ValidateToken(tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		userID, ok := service.UserIDFromClaims(claims)
		if !ok {
			logger.GetLogger().Warn("Invalid user ID in token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		// The account must still exist; a deleted user's token stops working
		ctx := c.Request.Context()
		user, err := m.users.GetByID(ctx, userID)
		if err != nil {
			logger.GetLogger().Warn("User behind token not found",
				zap.String("path", c.Request.URL.Path),
				zap.Uint("user_id", userID),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_name", user.UserName)
		c.Set("email", user.Email)
		c.Set("is_admin", user.IsAdmin)

		c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, user.ID))

		c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin callers. Must run after
// RequireAuth.
func (m *JWTMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, ok := c.Get("is_admin")
		if !ok || isAdmin != true {
			userID, _ := c.Get("user_id")
			logger.GetLogger().Warn("Admin-only route denied",
				zap.String("path", c.Request.URL.Path),
				zap.Any("user_id", userID))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("You are not allowed", nil))
			c.Abort()
			return
		}

		c.Next()
	}
}
