package main

import (
	"database/sql"
	"flag"
	"log"

	"giftwall/internal/config"
	"giftwall/internal/database/migrations"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

func main() {
	var (
		dir  = flag.String("dir", "./migrations", "directory containing migration files")
		seed = flag.Bool("seed", false, "also apply demo seed data")
		down = flag.Bool("down", false, "roll back all migrations instead of applying them")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN)))
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.Options{
		MigrationsDir: *dir,
		SeedData:      *seed,
	})
	defer runner.Close()

	if *down {
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		log.Println("All migrations rolled back")
		return
	}

	if err := runner.RunMigrations(); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Migrations applied")
}
