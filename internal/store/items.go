package store

import (
	"database/sql"
	"time"

	"newsdesk/internal/core"
)

// InsertItem records a freshly collected item. Called once per (run, url).
func (s *Store) InsertItem(item core.Item) error {
	_, err := s.db.Exec(`
		INSERT INTO items (id, run_id, topic, url, url_hash, title, source,
			published_at, first_seen_at, pipeline_stage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.RunID, item.Topic, item.URL, item.URLHash, item.Title, item.Source,
		item.PublishedAt, item.FirstSeenAt, core.StageCollected)
	return err
}

// SaveTriageResult writes the classifier's decision for an item.
func (s *Store) SaveTriageResult(itemID string, isMatch bool, confidence float64, reason string, priorityScore float64) error {
	_, err := s.db.Exec(`
		UPDATE items SET is_match = ?, triage_confidence = ?, triage_reason = ?, priority_score = ?
		WHERE id = ?`,
		isMatch, confidence, reason, priorityScore, itemID)
	return err
}

// SaveExtractedText records the content extractor's result for an item.
func (s *Store) SaveExtractedText(itemID, text string) error {
	_, err := s.db.Exec(`
		UPDATE items SET extracted_text = ?, content_length = ?, pipeline_stage = ?
		WHERE id = ?`,
		text, len(text), core.StageScraped, itemID)
	return err
}

func scanItem(row interface {
	Scan(dest ...any) error
}) (core.Item, error) {
	var it core.Item
	var published sql.NullTime
	var rank sql.NullInt64
	err := row.Scan(&it.ID, &it.RunID, &it.Topic, &it.URL, &it.URLHash, &it.Title, &it.Source,
		&published, &it.FirstSeenAt, &it.ExtractedText, &it.ContentLength, &it.IsMatch,
		&it.TriageConfidence, &it.TriageReason, &it.PriorityScore, &it.SelectedForProcessing,
		&rank, &it.PipelineStage)
	if err != nil {
		return it, err
	}
	if published.Valid {
		it.PublishedAt = &published.Time
	}
	if rank.Valid {
		it.SelectionRank = int(rank.Int64)
	}
	return it, nil
}

const itemColumns = `id, run_id, topic, url, url_hash, title, source, published_at,
	first_seen_at, extracted_text, content_length, is_match, triage_confidence,
	triage_reason, priority_score, selected_for_processing, selection_rank, pipeline_stage`

// GetItem fetches a single item by id.
func (s *Store) GetItem(itemID string) (core.Item, error) {
	row := s.db.QueryRow("SELECT "+itemColumns+" FROM items WHERE id = ?", itemID)
	return scanItem(row)
}

// ItemsForRun returns every item collected under a run, regardless of stage.
func (s *Store) ItemsForRun(runID string) ([]core.Item, error) {
	rows, err := s.db.Query("SELECT "+itemColumns+" FROM items WHERE run_id = ?", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ItemsWithinWindow returns items for a topic whose published_at (or, absent
// that, first_seen_at) falls on or after cutoff — the Swiss-timezone midnight
// cutoff the classifier computes before querying.
func (s *Store) ItemsWithinWindow(topic string, cutoff time.Time) ([]core.Item, error) {
	rows, err := s.db.Query(`
		SELECT `+itemColumns+` FROM items
		WHERE topic = ?
		AND (published_at >= ? OR (published_at IS NULL AND first_seen_at >= ?))`,
		topic, cutoff, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
