// Package service runs every board, column and card mutation as one database
// transaction: load the affected sibling lists, recompute positions, write
// only what changed, commit.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"kanban-board/internal/cache"
	"kanban-board/internal/model"
	"kanban-board/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxBoardNameLength   = 255
	MaxColumnTitleLength = 100
	MaxCardTitleLength   = 200
)

type KanbanService struct {
	store  *repository.Store
	cache  cache.Cache
	logger *zap.Logger
}

func NewKanbanService(store *repository.Store, c cache.Cache, logger *zap.Logger) *KanbanService {
	if c == nil {
		c = cache.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KanbanService{
		store:  store,
		cache:  c,
		logger: logger,
	}
}

// inTx runs fn in a transaction. Domain errors raised inside fn come back
// as they are; anything else from the store is reported as
// ErrTransactionFailed with the cause still reachable through errors.Is.
func (s *KanbanService) inTx(ctx context.Context, op string, fn func(tx *repository.Store) error) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return translate(fn(tx))
	})
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	s.logger.Error("Transaction rolled back", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w: %w", op, ErrTransactionFailed, err)
}

// Board snapshots are stored under a key that carries the board's cache
// generation. Every mutation bumps the generation, so a snapshot rendered
// from data read before the mutation is written under a key no reader will
// ask for again.
func boardCacheKey(id uuid.UUID, generation int64) string {
	return "kanban:board:" + id.String() + ":" + strconv.FormatInt(generation, 10)
}

func boardGenerationKey(id uuid.UUID) string {
	return "kanban:board:" + id.String() + ":gen"
}

// boardGeneration reads the current generation. ok is false when it cannot
// be read, in which case the snapshot is neither read nor written.
func (s *KanbanService) boardGeneration(ctx context.Context, id uuid.UUID) (int64, bool) {
	data, err := s.cache.Get(ctx, boardGenerationKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return 0, true
	}
	if err != nil {
		s.logger.Warn("Failed to read board cache generation", zap.String("board_id", id.String()), zap.Error(err))
		return 0, false
	}
	generation, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, false
	}
	return generation, true
}

func (s *KanbanService) invalidate(ctx context.Context, boardIDs ...uuid.UUID) {
	ctx = context.WithoutCancel(ctx)

	seen := make(map[uuid.UUID]bool, len(boardIDs))
	stale := make([]string, 0, len(boardIDs))
	for _, id := range boardIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		generation, err := s.cache.Incr(ctx, boardGenerationKey(id))
		if err != nil {
			// A failed bump leaves a stale snapshot until its TTL runs out.
			s.logger.Warn("Failed to invalidate board cache", zap.String("board_id", id.String()), zap.Error(err))
			continue
		}
		stale = append(stale, boardCacheKey(id, generation-1))
	}

	if err := s.cache.Delete(ctx, stale...); err != nil {
		s.logger.Warn("Failed to delete stale board snapshots", zap.Strings("keys", stale), zap.Error(err))
	}
}

func (s *KanbanService) cachedBoard(ctx context.Context, id uuid.UUID, generation int64) (*BoardView, bool) {
	data, err := s.cache.Get(ctx, boardCacheKey(id, generation))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Failed to read board cache", zap.String("board_id", id.String()), zap.Error(err))
		}
		return nil, false
	}
	var view BoardView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, false
	}
	return &view, true
}

func (s *KanbanService) storeBoard(ctx context.Context, view *BoardView, generation int64) {
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, boardCacheKey(view.Board.ID, generation), data); err != nil {
		s.logger.Warn("Failed to write board cache", zap.String("board_id", view.Board.ID.String()), zap.Error(err))
	}
}

// cleanText trims s and checks it is non-blank and at most max runes long.
func cleanText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", validationError("%s is required", field)
	}
	if utf8.RuneCountInString(s) > max {
		return "", validationError("%s must be at most %d characters", field, max)
	}
	return s, nil
}

func columnIDs(columns []model.Column) []uuid.UUID {
	ids := make([]uuid.UUID, len(columns))
	for i, c := range columns {
		ids[i] = c.ID
	}
	return ids
}

func columnPositions(columns []model.Column) map[uuid.UUID]int {
	m := make(map[uuid.UUID]int, len(columns))
	for _, c := range columns {
		m[c.ID] = c.Position
	}
	return m
}

func cardIDs(cards []model.Card) []uuid.UUID {
	ids := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func cardPositions(cards []model.Card) map[uuid.UUID]int {
	m := make(map[uuid.UUID]int, len(cards))
	for _, c := range cards {
		m[c.ID] = c.Position
	}
	return m
}
