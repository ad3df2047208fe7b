package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/roccity/rally/internal/database"
)

// A demo roster big enough for a three-court night with sit-outs.
var demoRoster = []string{
	"Alice",
	"Ben",
	"Carmen",
	"Diego",
	"Elena",
	"Frank",
	"Grace",
	"Hector",
	"Ingrid",
	"Jonas",
	"Kara",
	"Liam",
	"Maya",
	"Noah",
}

// seedRoster inserts the given names with zeroed history counters, skipping
// names already on the roster. Any other failure aborts the whole batch.
func seedRoster(db *sql.DB, roster []string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for _, name := range roster {
		res, err := tx.Exec("INSERT INTO players (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
			name, time.Now().Unix())
		if err != nil {
			return 0, fmt.Errorf("failed to insert player %s: %w", name, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if affected == 0 {
			log.Warn("Player already exists, skipping", "name", name)
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read id for player %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO player_history (player_id) VALUES (?)", id); err != nil {
			return 0, fmt.Errorf("failed to insert history for player %s: %w", name, err)
		}
		inserted++
	}

	return inserted, tx.Commit()
}

func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "rally.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), migrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	inserted, err := seedRoster(db, demoRoster)
	if err != nil {
		log.Fatalf("Failed to seed roster: %s", err)
	}

	log.Info("Seeding complete", "inserted", inserted, "skipped", len(demoRoster)-inserted)
}
