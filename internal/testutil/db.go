package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// MongoURIEnv names the variable that enables Mongo-backed tests.
const MongoURIEnv = "LOCALHUB_TEST_MONGO_URI"

// TestContext returns a context with a generous timeout for test DB calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// SetupTestDB opens a private in-memory SQLite database with the directory
// schema migrated. The pool is pinned to one connection so every query sees
// the same memory database. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqldb.Open(sqldb.Config{
		Driver:       sqldb.DriverSQLite,
		SQLitePath:   ":memory:",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = sqldb.Close(db)
	})
	return db
}

// SetupMongo returns a fresh database on the server named by
// LOCALHUB_TEST_MONGO_URI, or skips the test when the variable is unset.
// The database is dropped when the test ends.
func SetupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		t.Skipf("%s not set; skipping Mongo-backed test", MongoURIEnv)
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect: %v", err)
	}

	db := client.Database("localhub_test_" + time.Now().UTC().Format("20060102150405.000000000"))
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
