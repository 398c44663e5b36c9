package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SolveRecord is one solved equation kept for the history browser
type SolveRecord struct {
	ID          string
	Equation    string // Sanitized predicted equation
	StepCount   int
	SourceImage string // Filename of the uploaded image
	SolvedAt    time.Time
}

// HistoryStore keeps solved equations in a local sqlite database
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	store := &HistoryStore{db: db}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}

	return store, nil
}

func (hs *HistoryStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS solves (
		id TEXT PRIMARY KEY,
		equation TEXT NOT NULL,
		step_count INTEGER NOT NULL,
		source_image TEXT,
		solved_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_solves_solved_at ON solves(solved_at);
	`

	_, err := hs.db.Exec(schema)
	return err
}

// Record stores one solved equation. The record ID is generated here.
func (hs *HistoryStore) Record(equation string, stepCount int, sourceImage string) error {
	_, err := hs.db.Exec(
		`INSERT INTO solves (id, equation, step_count, source_image, solved_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), equation, stepCount, sourceImage, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record solve: %w", err)
	}
	return nil
}

// List returns solve records, newest first, capped at limit (0 = no cap).
func (hs *HistoryStore) List(limit int) ([]SolveRecord, error) {
	query := `SELECT id, equation, step_count, source_image, solved_at FROM solves ORDER BY solved_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []SolveRecord
	for rows.Next() {
		var r SolveRecord
		if err := rows.Scan(&r.ID, &r.Equation, &r.StepCount, &r.SourceImage, &r.SolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Delete removes one record by ID.
func (hs *HistoryStore) Delete(id string) error {
	_, err := hs.db.Exec(`DELETE FROM solves WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	return nil
}

func (hs *HistoryStore) Close() error {
	return hs.db.Close()
}
