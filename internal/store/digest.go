package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"newsdesk/internal/core"
)

// GetDigestState returns the persisted incremental-digest state for
// (date, topic), or (zero, false, nil) if none exists yet.
func (s *Store) GetDigestState(date, topic string) (core.DigestState, bool, error) {
	var state core.DigestState
	var idsJSON, contentJSON string
	row := s.db.QueryRow(`
		SELECT digest_date, topic, processed_item_ids, digest_content, article_count, created_at, updated_at
		FROM digest_state WHERE digest_date = ? AND topic = ?`, date, topic)
	err := row.Scan(&state.DigestDate, &state.Topic, &idsJSON, &contentJSON,
		&state.ArticleCount, &state.CreatedAt, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DigestState{}, false, nil
	}
	if err != nil {
		return core.DigestState{}, false, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &state.ProcessedItemIDs); err != nil {
		return core.DigestState{}, false, err
	}
	if err := json.Unmarshal([]byte(contentJSON), &state.DigestContent); err != nil {
		return core.DigestState{}, false, err
	}
	return state, true, nil
}

// SaveDigestState upserts the state for (date, topic).
func (s *Store) SaveDigestState(date, topic string, itemIDs []string, content core.DigestContent) error {
	idsJSON, err := json.Marshal(itemIDs)
	if err != nil {
		return err
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(`
		INSERT INTO digest_state (digest_date, topic, processed_item_ids, digest_content, article_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (digest_date, topic) DO UPDATE SET
			processed_item_ids = excluded.processed_item_ids,
			digest_content = excluded.digest_content,
			article_count = excluded.article_count,
			updated_at = excluded.updated_at`,
		date, topic, string(idsJSON), string(contentJSON), len(itemIDs), now, now)
	return err
}

// LogDigestGeneration records one digest-build invocation.
func (s *Store) LogDigestGeneration(l core.DigestGenerationLog) error {
	_, err := s.db.Exec(`
		INSERT INTO digest_generation_log (digest_date, generation_type, topics_processed,
			total_articles, new_articles, api_calls_made, execution_time_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.DigestDate, l.GenerationType, l.TopicsProcessed, l.TotalArticles, l.NewArticles,
		l.APICallsMade, l.ExecutionTimeSeconds, time.Now().UTC())
	return err
}

// ClearOldDigestStates deletes digest_state/digest_generation_log rows older
// than cutoffDate (a "YYYY-MM-DD" string), mirroring the 7-day default
// retention window.
func (s *Store) ClearOldDigestStates(cutoffDate string) error {
	if _, err := s.db.Exec("DELETE FROM digest_state WHERE digest_date < ?", cutoffDate); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM digest_generation_log WHERE digest_date < ?", cutoffDate)
	return err
}
