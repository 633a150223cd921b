// Package middleware provides gin middleware for authentication, request
// logging, and metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nithinkp/kurihub/internal/auth"
	"github.com/nithinkp/kurihub/internal/models"
	"github.com/nithinkp/kurihub/internal/storage"
)

const (
	// ActorKey is the gin context key holding the authenticated *models.User.
	ActorKey = "actor"
)

// Actor extracts the authenticated user from the gin context.
// Returns nil when the request is unauthenticated.
func Actor(c *gin.Context) *models.User {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequireAuth validates the bearer token and loads the acting user from the
// store, aborting with 401 when the token is missing, invalid, or references
// a deleted account. Handlers downstream read the actor via Actor.
func RequireAuth(jwtManager *auth.JWTManager, users storage.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, auth.ErrMissingToken.Error())
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, auth.ErrInvalidToken.Error())
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, auth.ErrInvalidToken.Error())
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false, "error": "failed to load user", "code": "Internal",
			})
			return
		}
		if user == nil {
			abortUnauthorized(c, auth.ErrInvalidToken.Error())
			return
		}

		c.Set(ActorKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false, "error": msg, "code": "Unauthorized",
	})
}
