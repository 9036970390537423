package handler

import (
	"context"
	"errors"
	"net/http"

	"kanban-board/internal/model"
	"kanban-board/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KanbanService is the part of service.KanbanService the handlers use.
type KanbanService interface {
	CreateBoard(ctx context.Context, name string) (*model.Board, error)
	ListBoards(ctx context.Context) ([]model.Board, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*service.BoardView, error)
	RenameBoard(ctx context.Context, id uuid.UUID, name string) (string, error)
	DeleteBoard(ctx context.Context, id uuid.UUID) error

	CreateColumn(ctx context.Context, boardID uuid.UUID, title string) (*model.Column, error)
	RenameColumn(ctx context.Context, id uuid.UUID, title string) (string, error)
	DeleteColumn(ctx context.Context, id uuid.UUID) error
	ReorderColumns(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error

	CreateCard(ctx context.Context, columnID uuid.UUID, title, description string) (*model.Card, error)
	UpdateCard(ctx context.Context, id uuid.UUID, title string, description *string) (string, error)
	DeleteCard(ctx context.Context, id uuid.UUID) error
	MoveCard(ctx context.Context, cardID, toColumnID uuid.UUID, newIndex int) error
}

var _ KanbanService = (*service.KanbanService)(nil)

type ErrorResponse struct {
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidationFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case service.IsTimeout(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request timed out, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + entity + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}
