package seeder

import (
	"context"
	"fmt"

	"kanban-board/internal/model"
	"kanban-board/internal/position"
	"kanban-board/internal/repository"

	"go.uber.org/zap"
)

const (
	DemoBoardName = "Demo Board"
	cardsPerDemo  = 3
)

var demoColumns = []string{"To Do", "In Progress", "Done"}

type Seeder struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewSeeder(store *repository.Store, logger *zap.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
	}
}

// Seed creates the demo board unless the database already has boards. The
// whole board is written in one transaction.
func (s *Seeder) Seed(ctx context.Context) error {
	s.logger.Info("Running database seeders...")

	count, err := s.store.Boards.Count(ctx)
	if err != nil {
		return fmt.Errorf("count boards: %w", err)
	}
	if count > 0 {
		s.logger.Info("Boards already exist, skipping seed")
		return nil
	}

	var board model.Board
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		board = model.Board{Name: DemoBoardName}
		if err := tx.Boards.Create(ctx, &board); err != nil {
			return err
		}

		for ci, title := range demoColumns {
			column := model.Column{
				BoardID:  board.ID,
				Title:    title,
				Position: position.Append(ci),
			}
			if err := tx.Columns.Create(ctx, &column); err != nil {
				return err
			}

			for i := 0; i < cardsPerDemo; i++ {
				card := model.Card{
					ColumnID:    column.ID,
					Title:       fmt.Sprintf("%s Task %d", title, i+1),
					Description: fmt.Sprintf("Sample description for card %d", i),
					Position:    position.Append(i),
				}
				if err := tx.Cards.Create(ctx, &card); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed demo board: %w", err)
	}

	s.logger.Info("Seeded demo board",
		zap.String("board_id", board.ID.String()),
		zap.Int("columns", len(demoColumns)),
		zap.Int("cards", len(demoColumns)*cardsPerDemo),
	)
	return nil
}
