// Command migrate ensures the run persistence schema exists and
// optionally backfills saved run result JSON files into the database.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"aceintel/adapters/postgres"
	"aceintel/domain/run"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [runs_dir]")
	}

	databaseURL := os.Args[1]

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repository construction creates the schema when missing
	runs, err := postgres.NewRunRepository(db)
	if err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	log.Println("Schema is up to date")

	if len(os.Args) < 3 {
		return
	}
	runsDir := os.Args[2]

	files, err := findRunFiles(runsDir)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", runsDir, err)
	}
	log.Printf("Found %d run files to import", len(files))

	ctx := context.Background()
	imported := 0
	skipped := 0
	for _, file := range files {
		result, err := loadRunFromFile(file)
		if err != nil {
			log.Printf("Failed to load run from %s: %v", file, err)
			skipped++
			continue
		}

		if err := runs.Create(ctx, result); err != nil {
			log.Printf("Failed to import run %s: %v", result.RunID, err)
			skipped++
			continue
		}
		imported++
		log.Printf("Imported run %s from %s", result.RunID, filepath.Base(file))
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

func findRunFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func loadRunFromFile(filePath string) (*run.Result, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var result run.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
