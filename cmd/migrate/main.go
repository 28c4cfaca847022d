package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/securematch/securematch/infrastructure/adapter/postgres"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down or status")
	dir := flag.String("dir", "migrations", "directory holding NNN_name.up.sql / NNN_name.down.sql files")
	steps := flag.Int("steps", 1, "number of migrations to revert in down mode (0 reverts all)")
	flag.Parse()

	// The migrator only needs the database, so the full server config is not loaded.
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      "text",
		ServiceName: "securematch-migrate",
	})

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	migrator := postgres.NewMigrator(db, *dir, structuredLogger)

	switch strings.ToLower(*mode) {
	case "up":
		n, err := migrator.Up(ctx)
		if err != nil {
			log.Fatalf("Migration up failed after %d file(s): %v", n, err)
		}
		log.Printf("Migration up completed, %d applied", n)
	case "down":
		n, err := migrator.Down(ctx, *steps)
		if err != nil {
			log.Fatalf("Migration down failed after %d file(s): %v", n, err)
		}
		log.Printf("Migration down completed, %d reverted", n)
	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			log.Fatalf("Migration status failed: %v", err)
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%03d  %-40s %s\n", s.Version, s.Name, state)
		}
	default:
		log.Fatalf("Unknown mode: %s", *mode)
	}
}
