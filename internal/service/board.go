package service

import (
	"context"
	"fmt"

	"kanban-board/internal/model"
	"kanban-board/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *KanbanService) CreateBoard(ctx context.Context, name string) (*model.Board, error) {
	name, err := cleanText("name", name, MaxBoardNameLength)
	if err != nil {
		return nil, err
	}

	board := &model.Board{Name: name}
	if err := s.store.Boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("create board: %w: %w", ErrTransactionFailed, err)
	}

	s.logger.Info("Board created", zap.String("board_id", board.ID.String()))
	return board, nil
}

// ListBoards returns every board, newest first.
func (s *KanbanService) ListBoards(ctx context.Context) ([]model.Board, error) {
	boards, err := s.store.Boards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns the board with its columns and cards in position order.
// Snapshots are cached until the next mutation of the board bumps its
// cache generation.
func (s *KanbanService) GetBoard(ctx context.Context, id uuid.UUID) (*BoardView, error) {
	generation, cacheable := s.boardGeneration(ctx, id)
	if cacheable {
		if view, ok := s.cachedBoard(ctx, id, generation); ok {
			return view, nil
		}
	}

	board, err := s.store.Boards.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	columns, err := s.store.Columns.ListByBoard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	cards, err := s.store.Cards.ListByColumns(ctx, columnIDs(columns))
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	byColumn := make(map[uuid.UUID][]CardView, len(columns))
	for _, card := range cards {
		byColumn[card.ColumnID] = append(byColumn[card.ColumnID], CardView{
			ID:       card.ID,
			Title:    card.Title,
			Position: card.Position,
			Desc:     card.Description,
		})
	}

	view := &BoardView{
		Board:   BoardSummary{ID: board.ID, Name: board.Name},
		Columns: make([]ColumnView, 0, len(columns)),
	}
	for _, col := range columns {
		colCards := byColumn[col.ID]
		if colCards == nil {
			colCards = []CardView{}
		}
		view.Columns = append(view.Columns, ColumnView{
			ID:       col.ID,
			Title:    col.Title,
			Position: col.Position,
			Cards:    colCards,
		})
	}

	if cacheable {
		s.storeBoard(ctx, view, generation)
	}
	return view, nil
}

func (s *KanbanService) RenameBoard(ctx context.Context, id uuid.UUID, name string) (string, error) {
	name, err := cleanText("name", name, MaxBoardNameLength)
	if err != nil {
		return "", err
	}

	err = s.inTx(ctx, "rename board", func(tx *repository.Store) error {
		return tx.Boards.Rename(ctx, id, name)
	})
	if err != nil {
		return "", err
	}

	s.invalidate(ctx, id)
	return name, nil
}

// DeleteBoard removes the board, its columns and their cards in one
// transaction.
func (s *KanbanService) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	var cards, columns int64
	err := s.inTx(ctx, "delete board", func(tx *repository.Store) error {
		if _, err := tx.Boards.Lock(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Columns.LockByBoard(ctx, id); err != nil {
			return err
		}
		var err error
		if cards, err = tx.Cards.DeleteByBoard(ctx, id); err != nil {
			return err
		}
		if columns, err = tx.Columns.DeleteByBoard(ctx, id); err != nil {
			return err
		}
		return tx.Boards.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("Board deleted",
		zap.String("board_id", id.String()),
		zap.Int64("columns", columns),
		zap.Int64("cards", cards),
	)
	return nil
}
