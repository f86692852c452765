package store

import (
	"database/sql"
	"errors"
	"time"

	"newsdesk/internal/core"
)

// CreateRun starts a new pipeline run and seeds a pending checkpoint for
// every canonical step.
func (s *Store) CreateRun(runID, topic string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`INSERT INTO pipeline_runs (id, topic, started_at, status) VALUES (?, ?, ?, ?)`,
		runID, topic, time.Now().UTC(), "running"); err != nil {
		return err
	}
	for _, step := range core.StepOrder {
		if _, err = tx.Exec(`INSERT INTO pipeline_checkpoints (run_id, step_name, status) VALUES (?, ?, ?)`,
			runID, step, "pending"); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRunTopic returns the topic a run was started for.
func (s *Store) GetRunTopic(runID string) (string, error) {
	var topic string
	err := s.db.QueryRow(`SELECT topic FROM pipeline_runs WHERE id = ?`, runID).Scan(&topic)
	return topic, err
}

// StartStep marks a checkpoint as running.
func (s *Store) StartStep(runID string, step core.StepName) error {
	_, err := s.db.Exec(`
		UPDATE pipeline_checkpoints SET status = 'running', started_at = ?, error_message = NULL
		WHERE run_id = ? AND step_name = ?`, time.Now().UTC(), runID, step)
	return err
}

// CompleteStep marks a checkpoint with an explicit status — "completed",
// "failed", or "paused" for a step interrupted by context cancellation —
// and records errMsg (empty for a clean completion).
func (s *Store) CompleteStep(runID string, step core.StepName, status, errMsg string) error {
	_, err := s.db.Exec(`
		UPDATE pipeline_checkpoints SET status = ?, completed_at = ?, error_message = ?
		WHERE run_id = ? AND step_name = ?`, status, time.Now().UTC(), errMsg, runID, step)
	return err
}

// FinishRun marks the run itself completed, failed, or paused.
func (s *Store) FinishRun(runID, status string) error {
	_, err := s.db.Exec(`UPDATE pipeline_runs SET status = ?, completed_at = ? WHERE id = ?`,
		status, time.Now().UTC(), runID)
	return err
}

// ResumePoint returns the first non-completed step for a run, in canonical
// order, so a resumed invocation knows exactly where to restart. Returns
// ("", false) if every step already completed.
func (s *Store) ResumePoint(runID string) (core.StepName, bool, error) {
	row := s.db.QueryRow(`
		SELECT step_name FROM pipeline_checkpoints
		WHERE run_id = ? AND status != 'completed'
		ORDER BY CASE step_name
			WHEN 'collection' THEN 1
			WHEN 'filtering' THEN 2
			WHEN 'scraping' THEN 3
			WHEN 'summarization' THEN 4
			WHEN 'analysis' THEN 5
			ELSE 6 END
		LIMIT 1`, runID)
	var step string
	err := row.Scan(&step)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return core.StepName(step), true, nil
}
