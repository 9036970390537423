package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kanban-board/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetByID retrieves a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// Lock reads the card with a row lock held until the transaction ends
func (r *CardRepository) Lock(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// ListByColumn retrieves the cards of a column ordered by position, then id
func (r *CardRepository) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("column_id = ?", columnID).
		Order("position ASC").Order("id ASC").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// ListByColumns retrieves the cards of several columns in one query, each
// column's cards in position order
func (r *CardRepository) ListByColumns(ctx context.Context, columnIDs []uuid.UUID) ([]model.Card, error) {
	if len(columnIDs) == 0 {
		return nil, nil
	}
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("column_id IN ?", columnIDs).
		Order("column_id ASC").Order("position ASC").Order("id ASC").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// NextPosition returns max(position)+1 over the column's cards, or 0
func (r *CardRepository) NextPosition(ctx context.Context, columnID uuid.UUID) (int, error) {
	var next struct {
		Next int
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("COALESCE(MAX(position), -1) + 1 AS next").
		Where("column_id = ?", columnID).
		Scan(&next).Error

	return next.Next, err
}

// Update writes the given fields of a card
func (r *CardRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Reparent moves a card to another column at the given position
func (r *CardRepository) Reparent(ctx context.Context, id, columnID uuid.UUID, position int) error {
	return r.Update(ctx, id, map[string]interface{}{
		"column_id": columnID,
		"position":  position,
	})
}

// Delete removes a card by its ID
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// DeleteByColumn removes every card of a column
func (r *CardRepository) DeleteByColumn(ctx context.Context, columnID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("column_id = ?", columnID).Delete(&model.Card{})
	return result.RowsAffected, result.Error
}

// DeleteByBoard removes every card whose column belongs to the board
func (r *CardRepository) DeleteByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	columns := r.db.WithContext(ctx).Model(&model.Column{}).Select("id").Where("board_id = ?", boardID)
	result := r.db.WithContext(ctx).Where("column_id IN (?)", columns).Delete(&model.Card{})
	return result.RowsAffected, result.Error
}

// UpdatePositions writes new positions for the given cards
func (r *CardRepository) UpdatePositions(ctx context.Context, positions map[uuid.UUID]int) error {
	return updatePositions(ctx, r.db, &model.Card{}, positions)
}
