package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"kanban-board/internal/auth"
	"kanban-board/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupRouter(manager *auth.CSRFManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.DELETE("/cards/:id", middleware.CSRFMiddleware(manager, auth.IntentDeleteCard), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/cards/:id/delete", middleware.CSRFMiddleware(manager, auth.IntentDeleteCard), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}

func TestCSRFMiddleware_ValidHeaderToken(t *testing.T) {
	// Arrange
	manager := auth.NewCSRFManager("test-secret-key", time.Hour)
	router := setupRouter(manager)
	token, _ := manager.GenerateToken(auth.IntentDeleteCard)

	req, _ := http.NewRequest("DELETE", "/cards/1", nil)
	req.Header.Set(middleware.CSRFHeader, token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCSRFMiddleware_ValidFormToken(t *testing.T) {
	manager := auth.NewCSRFManager("test-secret-key", time.Hour)
	router := setupRouter(manager)
	token, _ := manager.GenerateToken(auth.IntentDeleteCard)

	form := url.Values{middleware.CSRFFormField: {token}}
	req, _ := http.NewRequest("POST", "/cards/1/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCSRFMiddleware_MissingToken(t *testing.T) {
	router := setupRouter(auth.NewCSRFManager("test-secret-key", time.Hour))

	req, _ := http.NewRequest("DELETE", "/cards/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "CSRF token is required")
}

func TestCSRFMiddleware_TokenForOtherIntent(t *testing.T) {
	manager := auth.NewCSRFManager("test-secret-key", time.Hour)
	router := setupRouter(manager)
	token, _ := manager.GenerateToken(auth.IntentDeleteBoard)

	req, _ := http.NewRequest("DELETE", "/cards/1", nil)
	req.Header.Set(middleware.CSRFHeader, token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid CSRF token")
}

func TestTimeoutMiddleware_SetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TimeoutMiddleware(time.Second))

	var hasDeadline bool
	r.GET("/ping", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	req, _ := http.NewRequest("GET", "/ping", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.True(t, hasDeadline)
}

func TestLoggerAndCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORSMiddleware([]string{"http://example.com"}))
	r.Use(middleware.LoggerMiddleware(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://example.com")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "http://example.com", resp.Header().Get("Access-Control-Allow-Origin"))
}
