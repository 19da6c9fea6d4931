// Package database implements the optional CLI-side store of verification
// reports. The scoring engine itself owns no persistence; this store only
// records verdicts for later review via the stats command.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"firmaverify/types"

	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase initializes and returns a database connection
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create table if it doesn't exist
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS verifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reference_path TEXT NOT NULL,
		candidate_path TEXT NOT NULL,
		mode TEXT,
		final_score REAL,
		category TEXT,
		confidence REAL,
		ssim_score REAL,
		graphological_score REAL,
		naturalness_score REAL,
		created_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_candidate_path ON verifications(candidate_path);
	CREATE INDEX IF NOT EXISTS idx_category ON verifications(category);`

	_, err = db.Exec(createTableSQL)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// OpenDatabase opens an existing database connection
func OpenDatabase(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dbPath)
}

// StoreVerification stores one verification verdict
func StoreVerification(db *sql.DB, referencePath, candidatePath string, mode types.PreprocessMode, verdict types.Verdict) error {
	stmt, err := db.Prepare(`
		INSERT INTO verifications (
			reference_path, candidate_path, mode, final_score, category,
			confidence, ssim_score, graphological_score, naturalness_score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %v", candidatePath, err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		referencePath,
		candidatePath,
		string(mode),
		verdict.FinalScore,
		string(verdict.Category),
		verdict.Confidence,
		verdict.SSIMScore,
		verdict.GraphologicalScore,
		verdict.Naturalness.Overall,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cannot insert verdict for %s: %v", candidatePath, err)
	}

	return nil
}

// VerificationStats contains summary statistics over stored verdicts
type VerificationStats struct {
	TotalVerifications int
	ByCategory         map[types.Category]int
	AverageFinalScore  float64
}

// GetVerificationStats retrieves summary statistics about stored verdicts
func GetVerificationStats(db *sql.DB) (*VerificationStats, error) {
	stats := &VerificationStats{
		ByCategory: make(map[types.Category]int),
	}

	err := db.QueryRow("SELECT COUNT(*) FROM verifications").Scan(&stats.TotalVerifications)
	if err != nil {
		return nil, fmt.Errorf("failed to count verifications: %v", err)
	}

	if stats.TotalVerifications == 0 {
		return stats, nil
	}

	err = db.QueryRow("SELECT AVG(final_score) FROM verifications").Scan(&stats.AverageFinalScore)
	if err != nil {
		return nil, fmt.Errorf("failed to average final scores: %v", err)
	}

	rows, err := db.Query("SELECT category, COUNT(*) FROM verifications GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %v", err)
		}
		stats.ByCategory[types.Category(category)] = count
	}

	return stats, rows.Err()
}

// ListRecent returns the most recent stored verdicts, newest first
func ListRecent(db *sql.DB, limit int) ([]types.VerificationRecord, error) {
	rows, err := db.Query(`
		SELECT id, reference_path, candidate_path, mode, final_score, category,
		       confidence, ssim_score, graphological_score, naturalness_score, created_at
		FROM verifications ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %v", err)
	}
	defer rows.Close()

	var records []types.VerificationRecord
	for rows.Next() {
		var r types.VerificationRecord
		var category string
		err := rows.Scan(&r.ID, &r.ReferencePath, &r.CandidatePath, &r.Mode, &r.FinalScore,
			&category, &r.Confidence, &r.SSIMScore, &r.Graphological, &r.Naturalness, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verification row: %v", err)
		}
		r.Category = types.Category(category)
		records = append(records, r)
	}

	return records, rows.Err()
}
