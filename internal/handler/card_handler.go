package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	svc KanbanService
}

func NewCardHandler(svc KanbanService) *CardHandler {
	return &CardHandler{svc: svc}
}

type CreateCardRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// UpdateCardRequest leaves the description unchanged when it is omitted.
type UpdateCardRequest struct {
	Title       string  `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

type MoveCardRequest struct {
	CardID     string `json:"cardId" binding:"required,uuid"`
	ToColumnID string `json:"toColumnId" binding:"required,uuid"`
	NewIndex   int    `json:"newIndex"`
}

type CardResponse struct {
	ID          string `json:"id"`
	ColumnID    string `json:"column_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// Create godoc
// @Summary Append a card to a column
// @Tags Cards
// @Accept json
// @Produce json
// @Param id path string true "Column ID"
// @Param request body CreateCardRequest true "Card"
// @Success 201 {object} CardResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/columns/{id}/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	columnID, ok := parseID(c, "column")
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.svc.CreateCard(c.Request.Context(), columnID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CardResponse{
		ID:          card.ID.String(),
		ColumnID:    card.ColumnID.String(),
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
	})
}

// Update godoc
// @Summary Change a card's title and description
// @Tags Cards
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param X-CSRF-Token header string true "Anti-forgery token (intent update_card)"
// @Param request body UpdateCardRequest true "Card fields"
// @Success 200 {object} RenameResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/cards/{id} [put]
func (h *CardHandler) Update(c *gin.Context) {
	cardID, ok := parseID(c, "card")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	title, err := h.svc.UpdateCard(c.Request.Context(), cardID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RenameResponse{OK: true, Title: title})
}

// Delete godoc
// @Summary Delete a card
// @Tags Cards
// @Produce json
// @Param id path string true "Card ID"
// @Param X-CSRF-Token header string true "Anti-forgery token (intent delete_card)"
// @Success 200 {object} OKResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	cardID, ok := parseID(c, "card")
	if !ok {
		return
	}

	if err := h.svc.DeleteCard(c.Request.Context(), cardID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// Move godoc
// @Summary Move a card within its column or to another column
// @Description newIndex is clamped to the target column, so any index past the end appends.
// @Tags Cards
// @Accept json
// @Produce json
// @Param request body MoveCardRequest true "Move"
// @Success 200 {object} OKResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/kanban/move-card [post]
func (h *CardHandler) Move(c *gin.Context) {
	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad payload"})
		return
	}

	// both already validated as UUIDs by the binding
	cardID := uuid.MustParse(req.CardID)
	toColumnID := uuid.MustParse(req.ToColumnID)

	if err := h.svc.MoveCard(c.Request.Context(), cardID, toColumnID, req.NewIndex); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
