package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/auth"
)

const (
	keyUserID    = "userID"
	keyUserEmail = "userEmail"
	keyIsAdmin   = "isAdmin"
)

// AuthMiddleware requires a valid JWT token
func AuthMiddleware(jwtSecret string, adminEmails []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, msg := bearerClaims(c, jwtSecret)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		setClaims(c, claims, adminEmails)
		c.Next()
	}
}

// AdminMiddleware runs after AuthMiddleware and rejects non-admin users.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware extracts user info if token is present, but doesn't require it
func OptionalAuthMiddleware(jwtSecret string, adminEmails []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := bearerClaims(c, jwtSecret); claims != nil {
			setClaims(c, claims, adminEmails)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(keyUserID)
}

func UserEmail(c *gin.Context) string {
	return c.GetString(keyUserEmail)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(keyIsAdmin)
}

func bearerClaims(c *gin.Context, secret string) (*auth.Claims, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, "authorization header required"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, "invalid authorization header format"
	}
	claims, err := auth.ValidateAccessToken(parts[1], secret)
	if err != nil {
		return nil, "invalid or expired token"
	}
	return claims, ""
}

func setClaims(c *gin.Context, claims *auth.Claims, adminEmails []string) {
	c.Set(keyUserID, claims.UserID)
	c.Set(keyUserEmail, claims.Email)
	c.Set(keyIsAdmin, auth.IsAdmin(claims.Email, adminEmails))
}
