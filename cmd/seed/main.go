package main

import (
	"os"
	"time"

	"github.com/oggyb/liftlink/internal/config"
	"github.com/oggyb/liftlink/internal/db"
	"github.com/oggyb/liftlink/internal/logger"
)

// Seeds a persistent store (DB_DRIVER=mysql). The default in-memory store
// is gone when this process exits; use POST /api/seed for that instead.
func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitFromConfig(cfg)
	log := logger.L()

	if cfg.DB.Driver != "mysql" {
		log.Warn("seeding an in-memory store, data will not outlive this process", "driver", cfg.DB.Driver)
	}

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}
	defer db.Close(database)

	summary, err := db.SeedDemoData(database, time.Now().UTC())
	if err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	log.Info("Seeding completed.", "users", summary.Users, "posts", summary.Posts, "requests", summary.Requests, "password", db.DemoPassword)
}
