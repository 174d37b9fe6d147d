package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/JaimeStill/studybuddy/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn   = flag.String("dsn", "", "Database connection string (defaults to the service configuration)")
		all   = flag.Bool("all", false, "Run all seeders")
		users = flag.Bool("users", false, "Seed demo users")
		file  = flag.String("file", "", "External seed file (overrides embedded)")
		list  = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range listSeeders() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("failed to load env file: %v", err)
	}

	if *dsn == "" {
		*dsn = os.Getenv(EnvDatabaseDSN)
	}
	if *dsn == "" {
		cfg, err := config.LoadDatabase()
		if err != nil {
			log.Fatalf("database connection string required: use -dsn, %s, or config.toml: %v", EnvDatabaseDSN, err)
		}
		*dsn = cfg.Dsn()
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	switch {
	case *all:
		if err := runAllSeeders(ctx, db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("all seeders completed successfully")

	case *users:
		if *file != "" {
			if seeder, ok := getSeeder("users"); ok {
				seeder.(*UserSeeder).SetFile(*file)
			}
		}
		if err := runSeeder(ctx, db, "users"); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("users seeded successfully")

	default:
		fmt.Println("usage: seed [-dsn <connection-string>] [-all|-users] [-file <path>] [-list]")
		flag.PrintDefaults()
	}
}
