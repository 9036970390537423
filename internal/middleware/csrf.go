package middleware

import (
	"net/http"

	"kanban-board/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFormField = "_token"
)

// CSRFMiddleware rejects the request with 403 unless it carries a valid
// anti-forgery token for intent, in the X-CSRF-Token header or the _token
// form field.
func CSRFMiddleware(manager *auth.CSRFManager, intent string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(CSRFHeader)
		if token == "" {
			token = c.PostForm(CSRFFormField)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF token is required"})
			return
		}

		if err := manager.ValidateToken(token, intent); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
			return
		}

		c.Next()
	}
}
