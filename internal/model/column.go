package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column is an ordered lane of a board. Position is 0-based and contiguous
// among the columns of the same board.
type Column struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Title    string    `gorm:"size:100;not null"`
	Position int       `gorm:"not null"`

	Cards []Card `gorm:"foreignKey:ColumnID"`
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
