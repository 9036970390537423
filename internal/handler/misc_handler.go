package handler

import (
	"context"
	"net/http"

	"kanban-board/internal/auth"
	"kanban-board/internal/health"

	"github.com/gin-gonic/gin"
)

type CSRFHandler struct {
	manager *auth.CSRFManager
}

func NewCSRFHandler(manager *auth.CSRFManager) *CSRFHandler {
	return &CSRFHandler{manager: manager}
}

type CSRFTokenResponse struct {
	Token string `json:"token"`
}

// Token godoc
// @Summary Issue an anti-forgery token for one intent
// @Tags Security
// @Produce json
// @Param intent query string true "update_board, delete_board, update_column, delete_column, update_card or delete_card"
// @Success 200 {object} CSRFTokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/csrf-token [get]
func (h *CSRFHandler) Token(c *gin.Context) {
	intent := c.Query("intent")
	if !auth.IsKnownIntent(intent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown intent"})
		return
	}

	token, err := h.manager.GenerateToken(intent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, CSRFTokenResponse{Token: token})
}

type HealthChecker interface {
	Check(ctx context.Context) health.Status
}

type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Check godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} health.Status
// @Failure 503 {object} health.Status
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.checker.Check(c.Request.Context())
	if status.Status == health.StatusHealthy {
		c.JSON(http.StatusOK, status)
		return
	}
	c.JSON(http.StatusServiceUnavailable, status)
}
