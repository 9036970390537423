package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ColumnHandler struct {
	svc KanbanService
}

func NewColumnHandler(svc KanbanService) *ColumnHandler {
	return &ColumnHandler{svc: svc}
}

type CreateColumnRequest struct {
	Title string `json:"title" form:"title"`
}

type RenameColumnRequest struct {
	Title string `json:"title" form:"title"`
}

type ColumnResponse struct {
	ID       string `json:"id"`
	BoardID  string `json:"board_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type RenameResponse struct {
	OK    bool   `json:"ok"`
	Title string `json:"title"`
}

type ReorderColumnsRequest struct {
	OrderedColumnIDs []string `json:"orderedColumnIds" binding:"required,min=1,dive,uuid"`
}

// Create godoc
// @Summary Append a column to a board
// @Tags Columns
// @Accept json
// @Produce json
// @Param id path string true "Board ID"
// @Param request body CreateColumnRequest true "Column title"
// @Success 201 {object} ColumnResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/boards/{id}/columns [post]
func (h *ColumnHandler) Create(c *gin.Context) {
	boardID, ok := parseID(c, "board")
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	column, err := h.svc.CreateColumn(c.Request.Context(), boardID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ColumnResponse{
		ID:       column.ID.String(),
		BoardID:  column.BoardID.String(),
		Title:    column.Title,
		Position: column.Position,
	})
}

// Rename godoc
// @Summary Rename a column
// @Tags Columns
// @Accept json
// @Produce json
// @Param id path string true "Column ID"
// @Param X-CSRF-Token header string true "Anti-forgery token (intent update_column)"
// @Param request body RenameColumnRequest true "New title"
// @Success 200 {object} RenameResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/columns/{id} [put]
func (h *ColumnHandler) Rename(c *gin.Context) {
	columnID, ok := parseID(c, "column")
	if !ok {
		return
	}

	var req RenameColumnRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	title, err := h.svc.RenameColumn(c.Request.Context(), columnID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RenameResponse{OK: true, Title: title})
}

// Delete godoc
// @Summary Delete a column and its cards
// @Tags Columns
// @Produce json
// @Param id path string true "Column ID"
// @Param X-CSRF-Token header string true "Anti-forgery token (intent delete_column)"
// @Success 200 {object} OKResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/columns/{id} [delete]
func (h *ColumnHandler) Delete(c *gin.Context) {
	columnID, ok := parseID(c, "column")
	if !ok {
		return
	}

	if err := h.svc.DeleteColumn(c.Request.Context(), columnID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// Reorder godoc
// @Summary Reorder the columns of a board
// @Description Columns left out of the list keep their relative order after the listed ones.
// @Tags Columns
// @Accept json
// @Produce json
// @Param id path string true "Board ID"
// @Param request body ReorderColumnsRequest true "Column IDs in their new order"
// @Success 200 {object} OKResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id}/columns/reorder [post]
func (h *ColumnHandler) Reorder(c *gin.Context) {
	boardID, ok := parseID(c, "board")
	if !ok {
		return
	}

	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad payload"})
		return
	}

	ids := make([]uuid.UUID, len(req.OrderedColumnIDs))
	for i, raw := range req.OrderedColumnIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
			return
		}
		ids[i] = id
	}

	if err := h.svc.ReorderColumns(c.Request.Context(), boardID, ids); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
