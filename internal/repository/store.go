package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. A Store
// created inside Transaction is bound to that transaction, so every
// repository call made through it commits or rolls back together.
type Store struct {
	db *gorm.DB

	Boards  *BoardRepository
	Columns *ColumnRepository
	Cards   *CardRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Boards:  NewBoardRepository(db),
		Columns: NewColumnRepository(db),
		Cards:   NewCardRepository(db),
	}
}

// Transaction runs fn inside a database transaction. The transaction is
// rolled back if fn returns an error or panics, and committed otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// updatePositions writes each id's position, lowest position first so the
// statements run in a stable order.
func updatePositions(ctx context.Context, db *gorm.DB, model interface{}, positions map[uuid.UUID]int) error {
	ids := make([]uuid.UUID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if positions[ids[i]] != positions[ids[j]] {
			return positions[ids[i]] < positions[ids[j]]
		}
		return ids[i].String() < ids[j].String()
	})

	for _, id := range ids {
		if err := db.WithContext(ctx).Model(model).Where("id = ?", id).
			Update("position", positions[id]).Error; err != nil {
			return err
		}
	}
	return nil
}
