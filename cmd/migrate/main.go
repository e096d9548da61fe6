package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"hookr/migrations"
	"hookr/pkg/config"
	"hookr/pkg/database"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory for new migration files (create only)")
		command = flag.String("command", "up", "migration command (up, down, status, version, create)")
		name    = flag.String("name", "", "name for new migration (used with create command)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *command == "create" {
		if *name == "" {
			log.Fatal("Name is required for create command")
		}
		if err := goose.Create(nil, *dir, *name, "sql"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		fmt.Printf("Created migration: %s\n", *name)
		return
	}

	db, err := sql.Open("postgres", database.DSN(cfg))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	switch *command {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, "."); err != nil {
			log.Fatalf("Failed to rollback migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, "."); err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
	case "version":
		if err := goose.Version(db, "."); err != nil {
			log.Fatalf("Failed to get version: %v", err)
		}
	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}
