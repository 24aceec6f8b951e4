package config

// Database drivers
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Defaults
const (
	// DefaultMongoURL points at a local server; the path selects the database.
	DefaultMongoURL = "mongodb://localhost:27017/bookshelf"

	// DefaultDatabasePath is the SQLite file used by the sqlite driver
	DefaultDatabasePath = "./bookshelf.db"
)
