package store

import (
	"encoding/json"

	"newsdesk/internal/core"
)

// SaveSummary persists a per-item, per-topic summary.
func (s *Store) SaveSummary(summary core.Summary) error {
	keyPoints, err := json.Marshal(summary.KeyPoints)
	if err != nil {
		return err
	}
	entities, err := json.Marshal(summary.Entities)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO summaries (item_id, topic, summary_text, key_points_json, entities_json,
			topic_already_covered, cross_run_cluster_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id, topic) DO UPDATE SET
			summary_text = excluded.summary_text,
			key_points_json = excluded.key_points_json,
			entities_json = excluded.entities_json`,
		summary.ItemID, summary.Topic, summary.SummaryText, string(keyPoints), string(entities),
		summary.TopicAlreadyCovered, summary.CrossRunClusterID, summary.CreatedAt)
	return err
}

// MarkTopicCovered flags a summary as a cross-run duplicate of an earlier
// topic signature, per CrossRunTopicDeduplicator.mark_duplicate_topics.
func (s *Store) MarkTopicCovered(itemID, clusterID string) error {
	_, err := s.db.Exec(`
		UPDATE summaries SET topic_already_covered = 1, cross_run_cluster_id = ? WHERE item_id = ?`,
		clusterID, itemID)
	return err
}

// SummaryRow bundles a summary with the fields the digest builder needs from
// its parent item.
type SummaryRow struct {
	core.Summary
	Title  string
	URL    string
	Source string
}

// TodaysUncoveredSummaries returns today's (per UTC date string) summaries for
// a topic that have not yet been flagged as cross-run duplicates, newest
// first — the pool a cross-run comparison pass works over.
func (s *Store) TodaysUncoveredSummaries(topic, date string) ([]SummaryRow, error) {
	rows, err := s.db.Query(`
		SELECT s.item_id, s.topic, s.summary_text, s.key_points_json, s.entities_json,
		       s.created_at, i.title, i.url, i.source
		FROM summaries s
		JOIN items i ON s.item_id = i.id
		WHERE s.topic = ? AND DATE(s.created_at) = ? AND COALESCE(s.topic_already_covered, 0) = 0
		ORDER BY s.created_at DESC`, topic, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var r SummaryRow
		var keyPoints, entities string
		if err := rows.Scan(&r.ItemID, &r.Topic, &r.SummaryText, &keyPoints, &entities,
			&r.CreatedAt, &r.Title, &r.URL, &r.Source); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(keyPoints), &r.KeyPoints)
		_ = json.Unmarshal([]byte(entities), &r.Entities)
		out = append(out, r)
	}
	return out, rows.Err()
}

// NewItemsForTopicOnDate returns primary, not-yet-covered items for a topic
// on a date that aren't already in processedIDs — the incremental digest
// builder's "what's new since last time" query.
func (s *Store) NewItemsForTopicOnDate(topic, date string, processedIDs map[string]bool) ([]SummaryRow, error) {
	rows, err := s.db.Query(`
		SELECT i.id, i.triage_confidence, s.summary_text, s.key_points_json, s.entities_json,
		       s.created_at, i.title, i.url, i.source
		FROM items i
		JOIN summaries s ON i.id = s.item_id AND s.topic = ?
		LEFT JOIN article_clusters ac ON i.id = ac.item_id AND ac.clustering_method = 'gpt_title_clustering'
		WHERE (DATE(i.published_at) = ? OR (i.published_at IS NULL AND DATE(i.first_seen_at) = ?))
		AND COALESCE(s.topic_already_covered, 0) = 0
		AND (ac.is_primary = 1 OR ac.item_id IS NULL)
		ORDER BY i.triage_confidence DESC, s.created_at DESC`, topic, date, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var r SummaryRow
		var confidence float64
		var keyPoints, entities string
		if err := rows.Scan(&r.ItemID, &confidence, &r.SummaryText, &keyPoints, &entities,
			&r.CreatedAt, &r.Title, &r.URL, &r.Source); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(keyPoints), &r.KeyPoints)
		_ = json.Unmarshal([]byte(entities), &r.Entities)
		if !processedIDs[r.ItemID] {
			out = append(out, r)
		}
	}
	return out, rows.Err()
}
