// Package storage persists completed analysis runs to a local sqlite
// database so past recommendations can be reviewed later.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"coinsage/internal/models"
)

// Store is a sqlite-backed history of analysis results.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_loc=Local")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.initTable(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		coin TEXT NOT NULL,
		trade_date TEXT NOT NULL,
		trader_profile TEXT NOT NULL,
		horizon TEXT NOT NULL,
		final_decision TEXT NOT NULL,
		confidence REAL,
		final_reason TEXT,
		risk_notes TEXT,
		result_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create analyses table: %w", err)
	}
	return nil
}

// Save appends one completed result to the history.
func (s *Store) Save(result *models.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	var confidence any
	if result.Confidence != nil {
		confidence = *result.Confidence
	}

	_, err = s.db.Exec(`
		INSERT INTO analyses (coin, trade_date, trader_profile, horizon, final_decision, confidence, final_reason, risk_notes, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Coin, result.TradeDate, string(result.TraderProfile), string(result.Horizon),
		result.FinalDecision, confidence, result.FinalReason, result.RiskNotes, string(payload))
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// HistoryEntry is one stored run as listed by Recent.
type HistoryEntry struct {
	ID            int64
	Coin          string
	TradeDate     string
	TraderProfile string
	Horizon       string
	FinalDecision string
	Confidence    *float64
	CreatedAt     string
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, coin, trade_date, trader_profile, horizon, final_decision, confidence, created_at
		FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e := &HistoryEntry{}
		var confidence sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Coin, &e.TradeDate, &e.TraderProfile, &e.Horizon,
			&e.FinalDecision, &confidence, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		if confidence.Valid {
			v := confidence.Float64
			e.Confidence = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads one stored result by id.
func (s *Store) Get(id int64) (*models.Result, error) {
	var payload string
	err := s.db.QueryRow(`SELECT result_json FROM analyses WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis %d: %w", id, err)
	}

	var result models.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode analysis %d: %w", id, err)
	}
	return &result, nil
}
