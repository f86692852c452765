package store

import (
	"database/sql"
	"errors"
	"time"

	"newsdesk/internal/core"
)

// NextRunSequence returns max(existing run_sequence for date) + 1, so each
// pipeline run within a day gets a strictly increasing sequence number.
func (s *Store) NextRunSequence(date string) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(run_sequence) FROM cross_run_topic_signatures WHERE date = ?", date,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

// StoreTopicSignature persists a new retained topic fingerprint.
func (s *Store) StoreTopicSignature(sig core.CrossRunTopicSignature) error {
	_, err := s.db.Exec(`
		INSERT INTO cross_run_topic_signatures (signature_id, date, run_sequence, source_item_id, topic, signature_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sig.SignatureID, sig.Date, sig.RunSequence, sig.SourceItemID, sig.Topic, sig.SignatureText, sig.CreatedAt)
	return err
}

// PreviousSignatures returns the most recent limit signatures for a date,
// ordered (run_sequence, created_at) as in the original state manager, most
// recent first so index 0 is the "default to first" fallback target.
func (s *Store) PreviousSignatures(date string, limit int) ([]core.CrossRunTopicSignature, error) {
	rows, err := s.db.Query(`
		SELECT signature_id, date, run_sequence, source_item_id, topic, signature_text, created_at
		FROM cross_run_topic_signatures
		WHERE date = ?
		ORDER BY run_sequence DESC, created_at DESC
		LIMIT ?`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.CrossRunTopicSignature
	for rows.Next() {
		var sig core.CrossRunTopicSignature
		if err := rows.Scan(&sig.SignatureID, &sig.Date, &sig.RunSequence, &sig.SourceItemID,
			&sig.Topic, &sig.SignatureText, &sig.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

// GetSignatureByID fetches a single signature, or (zero, false, nil) if absent.
func (s *Store) GetSignatureByID(id string) (core.CrossRunTopicSignature, bool, error) {
	var sig core.CrossRunTopicSignature
	row := s.db.QueryRow(`
		SELECT signature_id, date, run_sequence, source_item_id, topic, signature_text, created_at
		FROM cross_run_topic_signatures WHERE signature_id = ?`, id)
	err := row.Scan(&sig.SignatureID, &sig.Date, &sig.RunSequence, &sig.SourceItemID,
		&sig.Topic, &sig.SignatureText, &sig.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CrossRunTopicSignature{}, false, nil
	}
	if err != nil {
		return core.CrossRunTopicSignature{}, false, err
	}
	return sig, true, nil
}

// LogDeduplicationDecision records one cross-run comparison outcome.
func (s *Store) LogDeduplicationDecision(l core.CrossRunDeduplicationLog) error {
	_, err := s.db.Exec(`
		INSERT INTO cross_run_deduplication_log (date, new_item_id, matched_signature_id, decision, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		l.Date, l.NewItemID, l.MatchedSignatureID, l.Decision, time.Now().UTC())
	return err
}

// CleanupOldSignatures deletes signatures (and nothing else — the
// deduplication log is kept for audit) older than cutoffDate.
func (s *Store) CleanupOldSignatures(cutoffDate string) error {
	_, err := s.db.Exec("DELETE FROM cross_run_topic_signatures WHERE date < ?", cutoffDate)
	return err
}
