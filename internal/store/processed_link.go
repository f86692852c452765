package store

import (
	"database/sql"
	"errors"
	"time"

	"newsdesk/internal/core"
)

// LookupProcessedLink returns the previously recorded classifier decision for
// (urlHash, topic), or (zero, false, nil) if the pair has never been judged.
//
// Callers must treat a miss as "unknown", never as "reject": the original
// pipeline forced is_match=false whenever a link had been seen before, even
// if it had previously matched — this port always reuses the stored verdict
// instead, so a link judged relevant once isn't silently dropped on a later
// run that happens to re-collect it.
func (s *Store) LookupProcessedLink(urlHash, topic string) (core.ProcessedLink, bool, error) {
	var pl core.ProcessedLink
	row := s.db.QueryRow(`
		SELECT url_hash, topic, is_match, confidence, reason, processed_at
		FROM processed_links WHERE url_hash = ? AND topic = ?`, urlHash, topic)
	err := row.Scan(&pl.URLHash, &pl.Topic, &pl.IsMatch, &pl.Confidence, &pl.Reason, &pl.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ProcessedLink{}, false, nil
	}
	if err != nil {
		return core.ProcessedLink{}, false, err
	}
	return pl, true, nil
}

// RecordProcessedLink upserts the memoized decision for (urlHash, topic).
func (s *Store) RecordProcessedLink(urlHash, topic string, isMatch bool, confidence float64, reason string) error {
	_, err := s.db.Exec(`
		INSERT INTO processed_links (url_hash, topic, is_match, confidence, reason, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (url_hash, topic) DO UPDATE SET
			is_match = excluded.is_match,
			confidence = excluded.confidence,
			reason = excluded.reason,
			processed_at = excluded.processed_at`,
		urlHash, topic, isMatch, confidence, reason, time.Now().UTC())
	return err
}
