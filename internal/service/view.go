package service

import "github.com/google/uuid"

// BoardView is the full board snapshot served by the board endpoint and
// stored in the cache.
type BoardView struct {
	Board   BoardSummary `json:"board"`
	Columns []ColumnView `json:"columns"`
}

type BoardSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ColumnView struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	Position int        `json:"position"`
	Cards    []CardView `json:"cards"`
}

type CardView struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
	Desc     string    `json:"desc"`
}
