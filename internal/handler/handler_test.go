package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kanban-board/internal/auth"
	"kanban-board/internal/handler"
	"kanban-board/internal/health"
	"kanban-board/internal/model"
	"kanban-board/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKanbanService struct {
	mock.Mock
}

func (m *MockKanbanService) CreateBoard(ctx context.Context, name string) (*model.Board, error) {
	args := m.Called(ctx, name)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockKanbanService) ListBoards(ctx context.Context) ([]model.Board, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Board), args.Error(1)
}

func (m *MockKanbanService) GetBoard(ctx context.Context, id uuid.UUID) (*service.BoardView, error) {
	args := m.Called(ctx, id)
	view := args.Get(0)
	if view == nil {
		return nil, args.Error(1)
	}
	return view.(*service.BoardView), args.Error(1)
}

func (m *MockKanbanService) RenameBoard(ctx context.Context, id uuid.UUID, name string) (string, error) {
	args := m.Called(ctx, id, name)
	return args.String(0), args.Error(1)
}

func (m *MockKanbanService) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockKanbanService) CreateColumn(ctx context.Context, boardID uuid.UUID, title string) (*model.Column, error) {
	args := m.Called(ctx, boardID, title)
	column := args.Get(0)
	if column == nil {
		return nil, args.Error(1)
	}
	return column.(*model.Column), args.Error(1)
}

func (m *MockKanbanService) RenameColumn(ctx context.Context, id uuid.UUID, title string) (string, error) {
	args := m.Called(ctx, id, title)
	return args.String(0), args.Error(1)
}

func (m *MockKanbanService) DeleteColumn(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockKanbanService) ReorderColumns(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error {
	return m.Called(ctx, boardID, orderedIDs).Error(0)
}

func (m *MockKanbanService) CreateCard(ctx context.Context, columnID uuid.UUID, title, description string) (*model.Card, error) {
	args := m.Called(ctx, columnID, title, description)
	card := args.Get(0)
	if card == nil {
		return nil, args.Error(1)
	}
	return card.(*model.Card), args.Error(1)
}

func (m *MockKanbanService) UpdateCard(ctx context.Context, id uuid.UUID, title string, description *string) (string, error) {
	args := m.Called(ctx, id, title, description)
	return args.String(0), args.Error(1)
}

func (m *MockKanbanService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockKanbanService) MoveCard(ctx context.Context, cardID, toColumnID uuid.UUID, newIndex int) error {
	return m.Called(ctx, cardID, toColumnID, newIndex).Error(0)
}

func setupTest() (*gin.Engine, *MockKanbanService) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := new(MockKanbanService)

	boards := handler.NewBoardHandler(svc)
	columns := handler.NewColumnHandler(svc)
	cards := handler.NewCardHandler(svc)

	r.GET("/api/boards", boards.List)
	r.POST("/api/boards", boards.Create)
	r.GET("/api/boards/:id", boards.GetByID)
	r.PUT("/api/boards/:id", boards.Rename)
	r.DELETE("/api/boards/:id", boards.Delete)
	r.POST("/api/boards/:id/columns", columns.Create)
	r.POST("/api/boards/:id/columns/reorder", columns.Reorder)
	r.PUT("/api/columns/:id", columns.Rename)
	r.DELETE("/api/columns/:id", columns.Delete)
	r.POST("/api/columns/:id/cards", cards.Create)
	r.PUT("/api/cards/:id", cards.Update)
	r.DELETE("/api/cards/:id", cards.Delete)
	r.POST("/api/kanban/move-card", cards.Move)

	return r, svc
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Error
}

func TestCreateBoard_Success(t *testing.T) {
	router, svc := setupTest()
	board := &model.Board{ID: uuid.New(), Name: "Roadmap"}
	svc.On("CreateBoard", mock.Anything, "Roadmap").Return(board, nil)

	resp := doJSON(router, http.MethodPost, "/api/boards", handler.CreateBoardRequest{Name: "Roadmap"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body handler.BoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, board.ID.String(), body.ID)
	assert.Equal(t, "Roadmap", body.Name)
	svc.AssertExpectations(t)
}

func TestCreateBoard_FormEncoded(t *testing.T) {
	router, svc := setupTest()
	board := &model.Board{ID: uuid.New(), Name: "Roadmap"}
	svc.On("CreateBoard", mock.Anything, "Roadmap").Return(board, nil)

	req, _ := http.NewRequest(http.MethodPost, "/api/boards", strings.NewReader("name=Roadmap"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)
	svc.AssertExpectations(t)
}

func TestCreateBoard_ValidationFailed(t *testing.T) {
	router, svc := setupTest()
	svc.On("CreateBoard", mock.Anything, "   ").
		Return(nil, fmt.Errorf("%w: name is required", service.ErrValidationFailed))

	resp := doJSON(router, http.MethodPost, "/api/boards", handler.CreateBoardRequest{Name: "   "})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, decodeError(t, resp), "name is required")
}

func TestCreateBoard_MalformedJSON(t *testing.T) {
	router, svc := setupTest()

	req, _ := http.NewRequest(http.MethodPost, "/api/boards", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "CreateBoard", mock.Anything, mock.Anything)
}

func TestListBoards(t *testing.T) {
	router, svc := setupTest()
	boards := []model.Board{
		{ID: uuid.New(), Name: "Newer"},
		{ID: uuid.New(), Name: "Older"},
	}
	svc.On("ListBoards", mock.Anything).Return(boards, nil)

	resp := doJSON(router, http.MethodGet, "/api/boards", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body []handler.BoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Newer", body[0].Name)
	assert.Equal(t, "Older", body[1].Name)
}

func TestGetBoard_InvalidID(t *testing.T) {
	router, svc := setupTest()

	resp := doJSON(router, http.MethodGet, "/api/boards/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid board ID format", decodeError(t, resp))
	svc.AssertNotCalled(t, "GetBoard", mock.Anything, mock.Anything)
}

func TestGetBoard_NotFound(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("GetBoard", mock.Anything, id).Return(nil, fmt.Errorf("board %w", service.ErrNotFound))

	resp := doJSON(router, http.MethodGet, "/api/boards/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "board not found", decodeError(t, resp))
}

func TestGetBoard_Success(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	colID := uuid.New()
	view := &service.BoardView{
		Board: service.BoardSummary{ID: id, Name: "Roadmap"},
		Columns: []service.ColumnView{
			{ID: colID, Title: "To Do", Position: 0, Cards: []service.CardView{}},
		},
	}
	svc.On("GetBoard", mock.Anything, id).Return(view, nil)

	resp := doJSON(router, http.MethodGet, "/api/boards/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Roadmap", body["board"].(map[string]interface{})["name"])
	columns := body["columns"].([]interface{})
	require.Len(t, columns, 1)
	assert.Equal(t, []interface{}{}, columns[0].(map[string]interface{})["cards"])
}

func TestRenameBoard(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("RenameBoard", mock.Anything, id, " Q3 ").Return("Q3", nil)

	resp := doJSON(router, http.MethodPut, "/api/boards/"+id.String(), handler.RenameBoardRequest{Name: " Q3 "})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.RenameBoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Q3", body.Name)
}

func TestDeleteBoard_InternalErrorIsOpaque(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("DeleteBoard", mock.Anything, id).
		Return(fmt.Errorf("delete board: %w: %w", service.ErrTransactionFailed, fmt.Errorf("pq: relation does not exist")))

	resp := doJSON(router, http.MethodDelete, "/api/boards/"+id.String(), nil)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Internal server error", decodeError(t, resp))
}

func TestDeleteBoard_Timeout(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("DeleteBoard", mock.Anything, id).
		Return(fmt.Errorf("delete board: %w: %w", service.ErrTransactionFailed, context.DeadlineExceeded))

	resp := doJSON(router, http.MethodDelete, "/api/boards/"+id.String(), nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestCreateColumn(t *testing.T) {
	router, svc := setupTest()
	boardID := uuid.New()
	column := &model.Column{ID: uuid.New(), BoardID: boardID, Title: "Review", Position: 3}
	svc.On("CreateColumn", mock.Anything, boardID, "Review").Return(column, nil)

	resp := doJSON(router, http.MethodPost, "/api/boards/"+boardID.String()+"/columns", handler.CreateColumnRequest{Title: "Review"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body handler.ColumnResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Position)
	assert.Equal(t, boardID.String(), body.BoardID)
}

func TestRenameColumn_NotFound(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("RenameColumn", mock.Anything, id, "Done").Return("", fmt.Errorf("column %w", service.ErrNotFound))

	resp := doJSON(router, http.MethodPut, "/api/columns/"+id.String(), handler.RenameColumnRequest{Title: "Done"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteColumn(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("DeleteColumn", mock.Anything, id).Return(nil)

	resp := doJSON(router, http.MethodDelete, "/api/columns/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true}`, resp.Body.String())
}

func TestReorderColumns(t *testing.T) {
	router, svc := setupTest()
	boardID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	svc.On("ReorderColumns", mock.Anything, boardID, ids).Return(nil)

	resp := doJSON(router, http.MethodPost, "/api/boards/"+boardID.String()+"/columns/reorder",
		handler.ReorderColumnsRequest{OrderedColumnIDs: []string{ids[0].String(), ids[1].String()}})

	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestReorderColumns_BadPayload(t *testing.T) {
	cases := map[string]interface{}{
		"empty list":   handler.ReorderColumnsRequest{OrderedColumnIDs: []string{}},
		"missing list": map[string]interface{}{},
		"not uuids":    handler.ReorderColumnsRequest{OrderedColumnIDs: []string{"abc"}},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			router, svc := setupTest()
			resp := doJSON(router, http.MethodPost, "/api/boards/"+uuid.NewString()+"/columns/reorder", payload)

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			svc.AssertNotCalled(t, "ReorderColumns", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateCard(t *testing.T) {
	router, svc := setupTest()
	columnID := uuid.New()
	card := &model.Card{ID: uuid.New(), ColumnID: columnID, Title: "Write docs", Description: "README", Position: 0}
	svc.On("CreateCard", mock.Anything, columnID, "Write docs", "README").Return(card, nil)

	resp := doJSON(router, http.MethodPost, "/api/columns/"+columnID.String()+"/cards",
		handler.CreateCardRequest{Title: "Write docs", Description: "README"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body handler.CardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "README", body.Description)
	assert.Equal(t, columnID.String(), body.ColumnID)
}

func TestUpdateCard_DescriptionOmitted(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("UpdateCard", mock.Anything, id, "Renamed", (*string)(nil)).Return("Renamed", nil)

	resp := doJSON(router, http.MethodPut, "/api/cards/"+id.String(), map[string]string{"title": "Renamed"})

	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestUpdateCard_DescriptionCleared(t *testing.T) {
	router, svc := setupTest()
	id := uuid.New()
	svc.On("UpdateCard", mock.Anything, id, "Renamed", mock.MatchedBy(func(d *string) bool {
		return d != nil && *d == ""
	})).Return("Renamed", nil)

	resp := doJSON(router, http.MethodPut, "/api/cards/"+id.String(), map[string]string{"title": "Renamed", "description": ""})

	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestDeleteCard_InvalidID(t *testing.T) {
	router, _ := setupTest()

	resp := doJSON(router, http.MethodDelete, "/api/cards/123", nil)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid card ID format", decodeError(t, resp))
}

func TestMoveCard(t *testing.T) {
	router, svc := setupTest()
	cardID, toColumnID := uuid.New(), uuid.New()
	svc.On("MoveCard", mock.Anything, cardID, toColumnID, 2).Return(nil)

	resp := doJSON(router, http.MethodPost, "/api/kanban/move-card", handler.MoveCardRequest{
		CardID:     cardID.String(),
		ToColumnID: toColumnID.String(),
		NewIndex:   2,
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true}`, resp.Body.String())
}

func TestMoveCard_BadPayload(t *testing.T) {
	router, svc := setupTest()

	resp := doJSON(router, http.MethodPost, "/api/kanban/move-card", map[string]interface{}{
		"cardId":   "nope",
		"newIndex": 0,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Bad payload", decodeError(t, resp))
	svc.AssertNotCalled(t, "MoveCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMoveCard_UnknownColumn(t *testing.T) {
	router, svc := setupTest()
	cardID, toColumnID := uuid.New(), uuid.New()
	svc.On("MoveCard", mock.Anything, cardID, toColumnID, 0).Return(fmt.Errorf("column %w", service.ErrNotFound))

	resp := doJSON(router, http.MethodPost, "/api/kanban/move-card", handler.MoveCardRequest{
		CardID:     cardID.String(),
		ToColumnID: toColumnID.String(),
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCSRFToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := auth.NewCSRFManager("test-secret", time.Hour)
	r := gin.New()
	r.GET("/api/csrf-token", handler.NewCSRFHandler(manager).Token)

	req, _ := http.NewRequest(http.MethodGet, "/api/csrf-token?intent="+auth.IntentDeleteCard, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body handler.CSRFTokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NoError(t, manager.ValidateToken(body.Token, auth.IntentDeleteCard))
	assert.Error(t, manager.ValidateToken(body.Token, auth.IntentDeleteBoard))

	req, _ = http.NewRequest(http.MethodGet, "/api/csrf-token?intent=drop_tables", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

type stubChecker struct {
	status health.Status
}

func (s stubChecker) Check(context.Context) health.Status {
	return s.status
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tc := range []struct {
		status string
		code   int
	}{
		{health.StatusHealthy, http.StatusOK},
		{health.StatusDegraded, http.StatusServiceUnavailable},
	} {
		r := gin.New()
		r.GET("/health", handler.NewHealthHandler(stubChecker{health.Status{Status: tc.status}}).Check)

		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		assert.Equal(t, tc.code, resp.Code, tc.status)
	}
}
