package config

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Reconcile
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver              string // "mongo" or "sqlite"
		MongoURL            string
		MongoDatabase       string // Overrides the database named in MongoURL
		MongoConnectTimeout time.Duration
		Path                string // SQLite file, only used by the sqlite driver
	}
	Reconcile struct {
		Schedule string // Cron format, empty disables the job
	}
)

// loadDotEnv reads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}
}

func NewConfig() *Config {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_driver", DriverMongo)
	v.SetDefault("mongo_url", DefaultMongoURL)
	v.SetDefault("mongo_database", "")
	v.SetDefault("mongo_connect_timeout", "10s")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("reconcile_schedule", "")

	// mongoURL is the legacy name still found in older .env files
	_ = v.BindEnv("mongo_url", "MONGO_URL", "mongoURL")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:              v.GetString("DATABASE_DRIVER"),
			MongoURL:            v.GetString("MONGO_URL"),
			MongoDatabase:       v.GetString("MONGO_DATABASE"),
			MongoConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
			Path:                v.GetString("DATABASE_PATH"),
		},
		Reconcile: Reconcile{
			Schedule: v.GetString("RECONCILE_SCHEDULE"),
		},
	}
}
