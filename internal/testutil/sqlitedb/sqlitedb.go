package sqlitedb

import (
	"fmt"
	"strings"
	"testing"

	"library-circulation/internal/domain/audit"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/fine"
	"library-circulation/internal/domain/transaction"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an isolated in-memory database with every table migrated.
// The pool is pinned to one connection so all statements, including those
// issued inside gorm transactions, see the same memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&book.Book{}, &transaction.Transaction{}, &fine.Fine{}, &audit.Entry{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
