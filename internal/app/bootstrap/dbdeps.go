// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	DB *gorm.DB

	// Audit store. Both are nil when mongo_uri is blank.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
