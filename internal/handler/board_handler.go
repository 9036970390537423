package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	svc KanbanService
}

func NewBoardHandler(svc KanbanService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type CreateBoardRequest struct {
	Name string `json:"name" form:"name"`
}

type RenameBoardRequest struct {
	Name string `json:"name" form:"name"`
}

type BoardResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RenameBoardResponse struct {
	OK   bool   `json:"ok"`
	Name string `json:"name"`
}

// Create godoc
// @Summary Create a board
// @Tags Boards
// @Accept json
// @Produce json
// @Param request body CreateBoardRequest true "Board name"
// @Success 201 {object} BoardResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.svc.CreateBoard(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, BoardResponse{
		ID:   board.ID.String(),
		Name: board.Name,
	})
}

// List godoc
// @Summary List boards, newest first
// @Tags Boards
// @Produce json
// @Success 200 {array} BoardResponse
// @Router /api/boards [get]
func (h *BoardHandler) List(c *gin.Context) {
	boards, err := h.svc.ListBoards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BoardResponse, len(boards))
	for i, board := range boards {
		response[i] = BoardResponse{
			ID:   board.ID.String(),
			Name: board.Name,
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary Fetch a board with its columns and cards
// @Tags Boards
// @Produce json
// @Param id path string true "Board ID"
// @Success 200 {object} service.BoardView
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	boardID, ok := parseID(c, "board")
	if !ok {
		return
	}

	view, err := h.svc.GetBoard(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Rename godoc
// @Summary Rename a board
// @Tags Boards
// @Accept json
// @Produce json
// @Param id path string true "Board ID"
// @Param X-CSRF-Token header string true "Anti-forgery token (intent update_board)"
// @Param request body RenameBoardRequest true "New name"
// @Success 200 {object} RenameBoardResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/boards/{id} [put]
func (h *BoardHandler) Rename(c *gin.Context) {
	boardID, ok := parseID(c, "board")
	if !ok {
		return
	}

	var req RenameBoardRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	name, err := h.svc.RenameBoard(c.Request.Context(), boardID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RenameBoardResponse{OK: true, Name: name})
}

// Delete godoc
// @Summary Delete a board with its columns and cards
// @Tags Boards
// @Produce json
// @Param id path string true "Board ID"
// @Param X-CSRF-Token header string true "Anti-forgery token (intent delete_board)"
// @Success 200 {object} OKResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	boardID, ok := parseID(c, "board")
	if !ok {
		return
	}

	if err := h.svc.DeleteBoard(c.Request.Context(), boardID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
