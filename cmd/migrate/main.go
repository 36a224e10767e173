package main

import (
	"context"
	"flag"
	"log"

	"blogsmith/internal/config"
	"blogsmith/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	drop := flag.Bool("drop", false, "Drop all prefixed tables before creating the schema (fresh start)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *drop {
		log.Fatalf("BLOCKED: -drop is not allowed in the production environment")
	}

	log.Printf("Migrating database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *drop {
		log.Println("Dropping tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	log.Printf("Schema ready: %v", tables.All())
}
