// Package testutil provides in-memory databases for tests.
package testutil

import (
	"testing"

	"kanban-board/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the kanban schema.
// The pool is pinned to one connection so the database lives as long as the
// test and transactions see the same data.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Board{}, &model.Column{}, &model.Card{}))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
