package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"employeehub/config"
	"employeehub/internal/pkg/database"
	"employeehub/migrations"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or failed to read. Loading configs from system environment only: %v", err)
	}

	cfg, err := config.LoadMigrationConfig()
	if err != nil {
		log.Fatalf("goose: %v", err)
	}

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "", "directory with migration files (default: embedded migrations)")
	flag.Parse()

	var fsys fs.FS = migrations.FS
	dir := "."
	if migrationsDir != "" {
		fsys = os.DirFS(migrationsDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Connect to the database
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("goose: failed to connect to DB: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: failed to close DB: %v\n", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"} // Default to 'up' if no command is provided
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := database.Migrate(ctx, db, fsys, dir, command, args...); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("goose %s success\n", command)
}
