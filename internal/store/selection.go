package store

import "fmt"

// SelectTopItems runs the four-step Selection Gate for a run: reset every
// item's selection state, rank the matched items above the confidence
// threshold by (confidence DESC, first_seen_at DESC), mark the top
// maxArticles as selected, and mark the matched remainder as
// matched_not_selected. The whole gate runs in one transaction so a crash
// mid-gate can never leave a run half-reset.
func (s *Store) SelectTopItems(runID string, threshold float64, maxArticles int) (selected int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Step 1: reset every item for this run.
	if _, err = tx.Exec(`
		UPDATE items
		SET selected_for_processing = 0,
		    selection_rank = NULL,
		    pipeline_stage = CASE WHEN is_match = 1 THEN 'matched' ELSE 'filtered_out' END
		WHERE run_id = ?`, runID); err != nil {
		return 0, fmt.Errorf("failed to reset selection state: %w", err)
	}

	// Step 2: pull matched, above-threshold items in priority order.
	rows, err := tx.Query(`
		SELECT id FROM items
		WHERE run_id = ? AND is_match = 1 AND triage_confidence >= ?
		ORDER BY triage_confidence DESC, first_seen_at DESC
		LIMIT ?`, runID, threshold, maxArticles)
	if err != nil {
		return 0, fmt.Errorf("failed to query candidates: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	// Step 3: assign contiguous ranks and mark as selected.
	for i, id := range ids {
		rank := i + 1
		if _, err = tx.Exec(`
			UPDATE items SET selected_for_processing = 1, selection_rank = ?, pipeline_stage = 'selected'
			WHERE id = ?`, rank, id); err != nil {
			return 0, fmt.Errorf("failed to mark item selected: %w", err)
		}
	}

	// Step 4: remaining matched-but-unselected items.
	if _, err = tx.Exec(`
		UPDATE items SET pipeline_stage = 'matched_not_selected'
		WHERE run_id = ? AND is_match = 1 AND pipeline_stage != 'selected'`, runID); err != nil {
		return 0, fmt.Errorf("failed to mark unselected matches: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// SelectedItems returns the items chosen by the most recent Selection Gate
// run, ordered by rank.
func (s *Store) SelectedItems(runID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT id FROM items WHERE run_id = ? AND selected_for_processing = 1
		ORDER BY selection_rank ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
