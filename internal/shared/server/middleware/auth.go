package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docverify-backend/internal/shared/auth"
	"docverify-backend/internal/shared/server/respond"
)

const subjectKey = "subject"

// Auth validates bearer access tokens and stores the caller identity in
// context. When required is false, requests without an Authorization header
// pass through anonymously; a header that is present must still be valid.
func Auth(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			if required {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(subjectKey, claims.Principal())
		c.Next()
	}
}

// SubjectFromContext fetches the caller identity set by the auth middleware.
func SubjectFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(subjectKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
