package main

import (
	"context"
	"flag"
	"log"

	"gorm.io/gorm/logger"

	"github.com/ordforrad/api/internal/config"
	"github.com/ordforrad/api/internal/database"
	"github.com/ordforrad/api/internal/importer"
	"github.com/ordforrad/api/internal/store"
)

func main() {
	filePath := flag.String("file", "data/words.txt", "Headword list (.txt, .csv or .xlsx)")
	dryRun := flag.Bool("dry-run", false, "Validate the file without writing")
	flag.Parse()

	res, err := importer.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *filePath, err)
	}
	for _, msg := range res.Errors {
		log.Printf("Skipped: %s", msg)
	}
	log.Printf("Read %d headwords from %s (%d duplicates, %d rejected)",
		len(res.Headwords), *filePath, res.Duplicates, len(res.Errors))

	if *dryRun {
		return
	}

	cfg := config.Load()
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL, logger.Warn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	words := store.NewWordStore(db)
	ctx := context.Background()

	inserted, existing := 0, 0
	for i, headword := range res.Headwords {
		_, created, err := words.Create(ctx, headword)
		if err != nil {
			log.Fatalf("Failed to insert %q after %d words: %v", headword, i, err)
		}
		if created {
			inserted++
		} else {
			existing++
		}
		if (i+1)%1000 == 0 {
			log.Printf("Progress: %d/%d", i+1, len(res.Headwords))
		}
	}

	log.Printf("Seeding complete: %d inserted, %d already present", inserted, existing)
}
