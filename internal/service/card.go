package service

import (
	"context"
	"errors"
	"slices"
	"sort"

	"kanban-board/internal/model"
	"kanban-board/internal/position"
	"kanban-board/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCard appends a card to the column.
func (s *KanbanService) CreateCard(ctx context.Context, columnID uuid.UUID, title, description string) (*model.Card, error) {
	title, err := cleanText("title", title, MaxCardTitleLength)
	if err != nil {
		return nil, err
	}

	card := &model.Card{ColumnID: columnID, Title: title, Description: description}
	var boardID uuid.UUID
	err = s.inTx(ctx, "create card", func(tx *repository.Store) error {
		column, err := tx.Columns.Lock(ctx, columnID)
		if err != nil {
			return err
		}
		boardID = column.BoardID

		next, err := tx.Cards.NextPosition(ctx, columnID)
		if err != nil {
			return err
		}
		card.Position = next
		return tx.Cards.Create(ctx, card)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, boardID)
	return card, nil
}

// UpdateCard sets the title and, when description is non-nil, the
// description. Position is left alone.
func (s *KanbanService) UpdateCard(ctx context.Context, id uuid.UUID, title string, description *string) (string, error) {
	title, err := cleanText("title", title, MaxCardTitleLength)
	if err != nil {
		return "", err
	}

	fields := map[string]interface{}{"title": title}
	if description != nil {
		fields["description"] = *description
	}

	var boardID uuid.UUID
	err = s.inTx(ctx, "update card", func(tx *repository.Store) error {
		card, err := tx.Cards.GetByID(ctx, id)
		if err != nil {
			return err
		}
		column, err := tx.Columns.GetByID(ctx, card.ColumnID)
		if err != nil {
			return err
		}
		boardID = column.BoardID
		return tx.Cards.Update(ctx, id, fields)
	})
	if err != nil {
		return "", err
	}

	s.invalidate(ctx, boardID)
	return title, nil
}

// DeleteCard removes the card and closes the gap in its column.
func (s *KanbanService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	var boardID uuid.UUID
	err := s.inTx(ctx, "delete card", func(tx *repository.Store) error {
		card, columns, err := lockCard(ctx, tx, id)
		if err != nil {
			return err
		}
		column := columns[card.ColumnID]
		boardID = column.BoardID

		if err := tx.Cards.Delete(ctx, id); err != nil {
			return err
		}
		remaining, err := tx.Cards.ListByColumn(ctx, column.ID)
		if err != nil {
			return err
		}
		order := position.Compact(cardIDs(remaining))
		return tx.Cards.UpdatePositions(ctx, position.Changed(order, cardPositions(remaining)))
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, boardID)
	return nil
}

// MoveCard puts the card at newIndex of the target column, which may be the
// column it is already in. newIndex is clamped to the target list, so any
// index past the end appends.
func (s *KanbanService) MoveCard(ctx context.Context, cardID, toColumnID uuid.UUID, newIndex int) error {
	var boardIDs []uuid.UUID
	err := s.inTx(ctx, "move card", func(tx *repository.Store) error {
		card, columns, err := lockCard(ctx, tx, cardID, toColumnID)
		if err != nil {
			return err
		}
		boardIDs = boardIDs[:0]
		for _, column := range columns {
			boardIDs = append(boardIDs, column.BoardID)
		}

		if card.ColumnID != toColumnID {
			source, err := tx.Cards.ListByColumn(ctx, card.ColumnID)
			if err != nil {
				return err
			}
			order := position.Remove(cardIDs(source), card.ID)
			if err := tx.Cards.UpdatePositions(ctx, position.Changed(order, cardPositions(source))); err != nil {
				return err
			}
		}

		target, err := tx.Cards.ListByColumn(ctx, toColumnID)
		if err != nil {
			return err
		}
		current := cardPositions(target)
		order := position.Move(cardIDs(target), card.ID, newIndex)
		changed := position.Changed(order, current)

		if card.ColumnID != toColumnID {
			if err := tx.Cards.Reparent(ctx, card.ID, toColumnID, changed[card.ID]); err != nil {
				return err
			}
			delete(changed, card.ID)
		}
		return tx.Cards.UpdatePositions(ctx, changed)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, boardIDs...)
	s.logger.Info("Card moved",
		zap.String("card_id", cardID.String()),
		zap.String("to_column_id", toColumnID.String()),
		zap.Int("index", newIndex),
	)
	return nil
}

const maxCardLockAttempts = 3

var errCardKeptMoving = errors.New("card moved to another column while it was being locked")

// lockCard locks the card's column, and the extra columns, before the card
// row itself. Every mutation locks in the order board, columns by id, cards,
// so two of them never wait on each other. The card is read without a lock
// first to learn its column and read again under the lock; if it moved in
// between, its new column is locked and the check repeats.
func lockCard(ctx context.Context, tx *repository.Store, cardID uuid.UUID, extra ...uuid.UUID) (*model.Card, map[uuid.UUID]*model.Column, error) {
	locked := make(map[uuid.UUID]*model.Column, len(extra)+1)
	for attempt := 0; attempt < maxCardLockAttempts; attempt++ {
		card, err := tx.Cards.GetByID(ctx, cardID)
		if err != nil {
			return nil, nil, err
		}

		if err := lockColumns(ctx, tx, locked, append([]uuid.UUID{card.ColumnID}, extra...)); err != nil {
			return nil, nil, err
		}

		card, err = tx.Cards.Lock(ctx, cardID)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := locked[card.ColumnID]; ok {
			return card, locked, nil
		}
	}
	return nil, nil, errCardKeptMoving
}

// lockColumns locks the columns of ids not yet in locked, in id order.
func lockColumns(ctx context.Context, tx *repository.Store, locked map[uuid.UUID]*model.Column, ids []uuid.UUID) error {
	pending := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := locked[id]; !ok && !slices.Contains(pending, id) {
			pending = append(pending, id)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].String() < pending[j].String() })

	for _, id := range pending {
		column, err := tx.Columns.Lock(ctx, id)
		if err != nil {
			return err
		}
		locked[id] = column
	}
	return nil
}
