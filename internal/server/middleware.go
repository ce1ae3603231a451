package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const contextUserIDKey = "auth.user_id"

// RequireAuth validates the bearer token and stores the authenticated user
// id on the request context.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		subject, err := s.tokens.Subject(token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserIDKey, subject)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}
