package service

import (
	"context"

	"kanban-board/internal/model"
	"kanban-board/internal/position"
	"kanban-board/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateColumn appends a column to the board.
func (s *KanbanService) CreateColumn(ctx context.Context, boardID uuid.UUID, title string) (*model.Column, error) {
	title, err := cleanText("title", title, MaxColumnTitleLength)
	if err != nil {
		return nil, err
	}

	column := &model.Column{BoardID: boardID, Title: title}
	err = s.inTx(ctx, "create column", func(tx *repository.Store) error {
		if _, err := tx.Boards.Lock(ctx, boardID); err != nil {
			return err
		}
		next, err := tx.Columns.NextPosition(ctx, boardID)
		if err != nil {
			return err
		}
		column.Position = next
		return tx.Columns.Create(ctx, column)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, boardID)
	return column, nil
}

func (s *KanbanService) RenameColumn(ctx context.Context, id uuid.UUID, title string) (string, error) {
	title, err := cleanText("title", title, MaxColumnTitleLength)
	if err != nil {
		return "", err
	}

	var boardID uuid.UUID
	err = s.inTx(ctx, "rename column", func(tx *repository.Store) error {
		column, err := tx.Columns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		boardID = column.BoardID
		return tx.Columns.Rename(ctx, id, title)
	})
	if err != nil {
		return "", err
	}

	s.invalidate(ctx, boardID)
	return title, nil
}

// DeleteColumn removes the column and its cards, then closes the gap it left
// in the board's column positions.
func (s *KanbanService) DeleteColumn(ctx context.Context, id uuid.UUID) error {
	var boardID uuid.UUID
	err := s.inTx(ctx, "delete column", func(tx *repository.Store) error {
		column, err := tx.Columns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		boardID = column.BoardID
		if _, err := tx.Boards.Lock(ctx, boardID); err != nil {
			return err
		}
		// columns before the card rows deleted below
		if _, err := tx.Columns.LockByBoard(ctx, boardID); err != nil {
			return err
		}

		if _, err := tx.Cards.DeleteByColumn(ctx, id); err != nil {
			return err
		}
		if err := tx.Columns.Delete(ctx, id); err != nil {
			return err
		}

		remaining, err := tx.Columns.ListByBoard(ctx, boardID)
		if err != nil {
			return err
		}
		order := position.Compact(columnIDs(remaining))
		return tx.Columns.UpdatePositions(ctx, position.Changed(order, columnPositions(remaining)))
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, boardID)
	s.logger.Info("Column deleted", zap.String("column_id", id.String()), zap.String("board_id", boardID.String()))
	return nil
}

// ReorderColumns applies a client ordering to the board's columns. Ids of
// other boards are ignored; columns left out of the list keep their relative
// order after the listed ones, so positions stay contiguous.
func (s *KanbanService) ReorderColumns(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return ErrBadRequest
	}

	err := s.inTx(ctx, "reorder columns", func(tx *repository.Store) error {
		if _, err := tx.Boards.Lock(ctx, boardID); err != nil {
			return err
		}
		if _, err := tx.Columns.LockByBoard(ctx, boardID); err != nil {
			return err
		}
		columns, err := tx.Columns.ListByBoard(ctx, boardID)
		if err != nil {
			return err
		}

		order := position.Reorder(columnIDs(columns), orderedIDs)
		return tx.Columns.UpdatePositions(ctx, position.Changed(order, columnPositions(columns)))
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, boardID)
	return nil
}
