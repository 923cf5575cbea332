package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
)

const (
	callerContextKey = "caller"
	userContextKey   = "user"
)

// resolveCaller reads the bearer token from the Authorization header and, if
// it maps to a user, attaches that user to the request context. Requests
// without a token proceed anonymously; abilities decide for themselves
// whether an anonymous caller is acceptable. A token that maps to no user is
// rejected outright.
func (s *Server) resolveCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		user, err := s.store.GetUserByAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		c.Set(userContextKey, user)
		c.Set(callerContextKey, &ability.Caller{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		c.Next()
	}
}

// requireAdminUser rejects requests not made by an administrator.
func (s *Server) requireAdminUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := userFromContext(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if user.Role != model.RoleAdministrator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator access required"})
			return
		}
		c.Next()
	}
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func callerFromContext(c *gin.Context) *ability.Caller {
	v, exists := c.Get(callerContextKey)
	if !exists {
		return nil
	}
	caller, ok := v.(*ability.Caller)
	if !ok {
		return nil
	}
	return caller
}

func userFromContext(c *gin.Context) *model.User {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}
