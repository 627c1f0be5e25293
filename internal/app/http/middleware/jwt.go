package middleware

import (
	"net/http"
	"strings"
	"time"

	"gallery-app/config"
	"gallery-app/internal/infra/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	RoleKey   = "role"
)

// Claims is the payload of an admin token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for the account, valid for ttl.
func SignToken(userID uint, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JWT_SECRET))
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// AuthMiddleware accepts only unexpired HS256 bearer tokens signed with
// JWT_SECRET and exposes their claims on the gin context.
func AuthMiddleware() gin.HandlerFunc {
	log := logger.Named("auth")
	return func(c *gin.Context) {
		key := []byte(config.JWT_SECRET)
		if len(key) == 0 {
			abort(c, http.StatusInternalServerError, "JWT secret not configured")
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "Authorization header missing")
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			abort(c, http.StatusUnauthorized, "Bearer token malformed")
			return
		}

		var claims Claims
		_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims,
			func(*jwt.Token) (any, error) { return key, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		)
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("token rejected")
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole lets through requests whose token carries role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(RoleKey)
		if !exists {
			abort(c, http.StatusUnauthorized, "Role not found in token")
			return
		}
		if value != role {
			abort(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}
