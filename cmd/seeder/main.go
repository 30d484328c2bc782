// cmd/seeder/main.go
package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/candraczapansky/salon-notify/internal/config"
	"github.com/candraczapansky/salon-notify/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Init(cfg.DatabaseConfig.URL())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := db.ApplyMigrations(cfg.DatabaseConfig.URL(), cfg.MigrationsPath); err != nil {
		log.Fatal(err)
	}

	seedFiles := []string{
		"seed/locations.sql",
		"seed/clients.sql",
		"seed/rules.sql",
		"seed/campaigns.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err := conn.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
