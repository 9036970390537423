package repository

import (
	"context"
	"errors"

	"kanban-board/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// Lock takes a row lock on the column. Card mutations lock the columns they
// touch so concurrent moves into the same column serialize.
func (r *ColumnRepository) Lock(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// LockByBoard locks every column of the board, in id order, and returns
// them in that order.
func (r *ColumnRepository) LockByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("board_id = ?", boardID).
		Order("id ASC").
		Find(&columns).Error
	return columns, err
}

// ListByBoard returns the board's columns by position, ties broken by id.
func (r *ColumnRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").Order("id ASC").
		Find(&columns).Error
	return columns, err
}

// NextPosition returns max(position)+1 over the board's columns, or 0 for an
// empty board.
func (r *ColumnRepository) NextPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	var next struct {
		Next int
	}
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("COALESCE(MAX(position), -1) + 1 AS next").
		Where("board_id = ?", boardID).
		Scan(&next).Error

	return next.Next, err
}

func (r *ColumnRepository) Rename(ctx context.Context, id uuid.UUID, title string) error {
	result := r.db.WithContext(ctx).Model(&model.Column{}).Where("id = ?", id).Update("title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Column{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// DeleteByBoard removes every column of the board and reports how many went.
func (r *ColumnRepository) DeleteByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&model.Column{})
	return result.RowsAffected, result.Error
}

func (r *ColumnRepository) UpdatePositions(ctx context.Context, positions map[uuid.UUID]int) error {
	return updatePositions(ctx, r.db, &model.Column{}, positions)
}
