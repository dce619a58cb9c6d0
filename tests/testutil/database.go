package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/config"
)

// NewTestDB opens a private in-memory sqlite database with all tables migrated.
// The database is shared by every connection the test opens and dropped when
// the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// One connection keeps transactions from tripping over sqlite's table locks
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}
