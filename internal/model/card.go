package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card is a work item. Position is 0-based and contiguous among the cards of
// the same column.
type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ColumnID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Position    int       `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
