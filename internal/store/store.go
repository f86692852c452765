// Package store persists every pipeline entity in a single SQLite database,
// using idempotent CREATE TABLE IF NOT EXISTS plus pragma_table_info-guarded
// ALTER TABLE migrations so repeated startups never fail on an existing schema.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite connection shared by every pipeline component.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if necessary) the SQLite database at dbPath and
// runs schema initialization and migrations.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pipeline_runs (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		status TEXT NOT NULL DEFAULT 'running'
	);`,
	`CREATE TABLE IF NOT EXISTS pipeline_checkpoints (
		run_id TEXT NOT NULL,
		step_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		started_at DATETIME,
		completed_at DATETIME,
		error_message TEXT,
		PRIMARY KEY (run_id, step_name),
		FOREIGN KEY (run_id) REFERENCES pipeline_runs (id)
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		url TEXT NOT NULL,
		url_hash TEXT NOT NULL,
		title TEXT,
		source TEXT,
		published_at DATETIME,
		first_seen_at DATETIME NOT NULL,
		extracted_text TEXT,
		content_length INTEGER DEFAULT 0,
		is_match BOOLEAN DEFAULT FALSE,
		triage_confidence REAL DEFAULT 0.0,
		triage_reason TEXT,
		priority_score REAL DEFAULT 0.0,
		selected_for_processing BOOLEAN DEFAULT FALSE,
		selection_rank INTEGER,
		pipeline_stage TEXT DEFAULT 'collected',
		FOREIGN KEY (run_id) REFERENCES pipeline_runs (id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_items_run_match ON items (run_id, is_match);`,
	`CREATE TABLE IF NOT EXISTS processed_links (
		url_hash TEXT NOT NULL,
		topic TEXT NOT NULL,
		is_match BOOLEAN NOT NULL,
		confidence REAL NOT NULL,
		reason TEXT,
		processed_at DATETIME NOT NULL,
		PRIMARY KEY (url_hash, topic)
	);`,
	`CREATE TABLE IF NOT EXISTS article_clusters (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		cluster_id TEXT NOT NULL,
		is_primary BOOLEAN DEFAULT FALSE,
		clustering_method TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (item_id) REFERENCES items (id)
	);`,
	`CREATE TABLE IF NOT EXISTS summaries (
		item_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		summary_text TEXT,
		key_points_json TEXT,
		entities_json TEXT,
		topic_already_covered BOOLEAN DEFAULT FALSE,
		cross_run_cluster_id TEXT,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (item_id, topic),
		FOREIGN KEY (item_id) REFERENCES items (id)
	);`,
	`CREATE TABLE IF NOT EXISTS digest_state (
		digest_date TEXT NOT NULL,
		topic TEXT NOT NULL,
		processed_item_ids TEXT NOT NULL,
		digest_content TEXT NOT NULL,
		article_count INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (digest_date, topic)
	);`,
	`CREATE TABLE IF NOT EXISTS digest_generation_log (
		digest_date TEXT NOT NULL,
		generation_type TEXT NOT NULL,
		topics_processed INTEGER DEFAULT 0,
		total_articles INTEGER DEFAULT 0,
		new_articles INTEGER DEFAULT 0,
		api_calls_made INTEGER DEFAULT 0,
		execution_time_seconds REAL DEFAULT 0.0,
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS cross_run_topic_signatures (
		signature_id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		run_sequence INTEGER NOT NULL,
		source_item_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		signature_text TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS cross_run_deduplication_log (
		date TEXT NOT NULL,
		new_item_id TEXT NOT NULL,
		matched_signature_id TEXT,
		decision TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`,
}

func (s *Store) initialize() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return s.runMigrations()
}

// addColumnIfMissing wraps the repeated pragma_table_info migration check so
// new columns can be added without repeating the boilerplate at every call site.
func (s *Store) addColumnIfMissing(table, column, ddl string) error {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl))
	if err != nil {
		return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
	}
	return nil
}

// runMigrations handles schema evolution for databases created by earlier
// versions of this store.
func (s *Store) runMigrations() error {
	if err := s.addColumnIfMissing("items", "priority_score", "REAL DEFAULT 0.0"); err != nil {
		return err
	}
	if err := s.addColumnIfMissing("summaries", "cross_run_cluster_id", "TEXT"); err != nil {
		return err
	}
	return nil
}
