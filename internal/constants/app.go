package constants

// Application Information
const (
	AppName    = "Movie Catalog API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// CookieRefreshToken names the httpOnly cookie carrying the refresh token.
// Its max-age follows the configured refresh TTL.
const CookieRefreshToken = "refreshToken"

// Rate limiter key prefix (redis)
const RateLimitKeyPrefix = "movie:ratelimit:"
