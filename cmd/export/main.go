package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm/logger"

	"github.com/ordforrad/api/internal/config"
	"github.com/ordforrad/api/internal/consolidate"
	"github.com/ordforrad/api/internal/database"
	"github.com/ordforrad/api/internal/store"
)

func main() {
	userID := flag.Int64("user", 0, "User id whose progress is exported")
	outDir := flag.String("out", "", "Output directory (defaults to EXPORT_DIR)")
	format := flag.String("format", "json", "json, csv or xlsx")
	mirror := flag.String("mirror", "", "Optional local sqlite mirror merged into the export")
	flag.Parse()

	cfg := config.Load()
	if *outDir == "" {
		*outDir = cfg.ExportDir
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL, logger.Silent)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	words := store.NewWordStore(db)
	progress := store.NewProgressStore(db)
	service := &consolidate.Service{
		Words:    []consolidate.WordSource{words},
		Progress: []consolidate.ProgressSource{progress},
		PageSize: store.DefaultPageSize,
	}

	if *mirror != "" {
		mirrorDB, err := database.Open("sqlite", *mirror, logger.Silent)
		if err != nil {
			log.Fatalf("Failed to open mirror %s: %v", *mirror, err)
		}
		service.Words = append(service.Words, store.NewWordStore(mirrorDB))
		service.Progress = append(service.Progress, store.NewProgressStore(mirrorDB))
		log.Printf("[Export] Merging local mirror %s", *mirror)
	}

	start := time.Now()
	entries, err := service.ForUser(context.Background(), *userID)
	if err != nil {
		log.Fatalf("[Export] Aborted: %v", err)
	}

	now := time.Now().In(cfg.Location())
	var path string
	switch *format {
	case "json":
		path, err = consolidate.ExportFile(*outDir, entries, now)
		if err == nil {
			// Read the file back so a truncated write is caught here.
			var back []consolidate.Entry
			back, err = consolidate.ImportFile(path)
			if err == nil && len(back) != len(entries) {
				log.Fatalf("[Export] %s holds %d entries, expected %d", path, len(back), len(entries))
			}
		}
	case "csv":
		path, err = writeFile(*outDir, consolidate.Filename(now, "csv"), entries, consolidate.WriteCSV)
	case "xlsx":
		path, err = writeFile(*outDir, consolidate.Filename(now, "xlsx"), entries, consolidate.WriteXLSX)
	default:
		log.Fatalf("Unknown format %q. Use json, csv, or xlsx", *format)
	}
	if err != nil {
		log.Fatalf("[Export] Failed to write: %v", err)
	}

	log.Printf("[Export] Wrote %d entries to %s in %v", len(entries), path, time.Since(start))
}

func writeFile(dir, name string, entries []consolidate.Entry, write func(io.Writer, []consolidate.Entry) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := write(&buf, entries); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, buf.Bytes(), 0o644)
}
