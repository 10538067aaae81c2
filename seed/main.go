// seed/main.go
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, credentials, sessions")
		dbPath   = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_DATABASE")
		if databasePath == "" {
			databasePath = "nissekomm.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&model.SessionRecord{}, &model.Credential{}); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "credentials":
		log.Println("Seeding credentials only...")
		if err := mainSeeder.SeedCredentialsOnly(); err != nil {
			log.Fatalf("Failed to seed credentials: %v", err)
		}
	case "sessions":
		log.Println("Seeding sessions only...")
		if err := mainSeeder.SeedSessionsOnly(); err != nil {
			log.Fatalf("Failed to seed sessions: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'credentials', or 'sessions'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Print(`
Database Seeding Tool for NisseKomm

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, credentials, sessions
  -db string
        Database path (overrides DB_DATABASE environment variable)
  -help
        Show this help message

Examples:
  # Seed the demo family and its half-played session
  go run seed/main.go

  # Seed only credentials
  go run seed/main.go -type=credentials

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_DATABASE - Default database path (default: nissekomm.db)

`)
}
