package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/arpay/arpay/internal/config"
	"github.com/arpay/arpay/internal/logger"
)

//go:embed migrations
var migrationFS embed.FS

const migrationDir = "migrations"

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.NewLogger(logger.Config{Level: cfg.Logging.Level})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logg.Infow("Connecting to database", "host", cfg.Postgres.Host)

	db, err := sqlx.Connect("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		logg.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := migrationFS.ReadDir(migrationDir)
	if err != nil {
		logg.Fatalw("Failed to read migrations", "error", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	logg.Info("Running database migrations...")

	for _, name := range names {
		script, err := migrationFS.ReadFile(migrationDir + "/" + name)
		if err != nil {
			logg.Fatalw("Failed to read migration", "file", name, "error", err)
		}

		if *dryRun {
			fmt.Printf("-- %s\n%s\n", name, script)
			continue
		}

		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			logg.Fatalw("Migration failed", "file", name, "error", err)
		}
		logg.Infow("Applied migration", "file", name)
	}

	if !*dryRun {
		logg.Info("Migration completed successfully")
	}
}
