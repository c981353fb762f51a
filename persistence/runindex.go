package persistence

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one catalog row: enough to find a run's archive and judge
// whether it is worth opening.
type RunRecord struct {
	RunID       string
	StartedAt   time.Time
	Seed        int64
	Biome       string
	Ticks       int
	Population  int     // final population
	MeanEnergy  float64 // of the last flushed window, 0 if none
	ArchivePath string
}

// RunIndex is a SQLite catalog of completed runs. Writes happen once per
// run, so a single connection behind a mutex is plenty.
type RunIndex struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenRunIndex opens or creates the catalog database.
func OpenRunIndex(path string) (*RunIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty run index path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		biome TEXT NOT NULL,
		ticks INTEGER NOT NULL,
		population INTEGER NOT NULL,
		mean_energy REAL NOT NULL,
		archive_path TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &RunIndex{db: db}, nil
}

// Insert catalogs one finished run, replacing any previous row with the
// same run id.
func (x *RunIndex) Insert(rec RunRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO runs
			(run_id, started_at, seed, biome, ticks, population, mean_energy, archive_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Seed,
		rec.Biome,
		rec.Ticks,
		rec.Population,
		rec.MeanEnergy,
		rec.ArchivePath,
	)
	return err
}

// List returns cataloged runs, newest first.
func (x *RunIndex) List() ([]RunRecord, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	rows, err := x.db.Query(
		`SELECT run_id, started_at, seed, biome, ticks, population, mean_energy, archive_path
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started string
		if err := rows.Scan(&rec.RunID, &started, &rec.Seed, &rec.Biome,
			&rec.Ticks, &rec.Population, &rec.MeanEnergy, &rec.ArchivePath); err != nil {
			return nil, err
		}
		rec.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at of %s: %w", rec.RunID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns one cataloged run by id.
func (x *RunIndex) Get(runID string) (RunRecord, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	var rec RunRecord
	var started string
	err := x.db.QueryRow(
		`SELECT run_id, started_at, seed, biome, ticks, population, mean_energy, archive_path
		 FROM runs WHERE run_id = ?`, runID).
		Scan(&rec.RunID, &started, &rec.Seed, &rec.Biome,
			&rec.Ticks, &rec.Population, &rec.MeanEnergy, &rec.ArchivePath)
	if err != nil {
		return rec, err
	}
	rec.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return rec, fmt.Errorf("parsing started_at of %s: %w", rec.RunID, err)
	}
	return rec, nil
}

// Close releases the database handle.
func (x *RunIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.db.Close()
}
