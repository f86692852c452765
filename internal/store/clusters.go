package store

import "newsdesk/internal/core"

// SaveClusterAssignment records that item belongs to cluster clusterID under
// the given clustering method, optionally as the cluster's primary member.
func (s *Store) SaveClusterAssignment(cluster core.ArticleCluster) error {
	_, err := s.db.Exec(`
		INSERT INTO article_clusters (id, item_id, cluster_id, is_primary, clustering_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cluster.ID, cluster.ItemID, cluster.ClusterID, cluster.IsPrimary, cluster.ClusteringMethod, cluster.CreatedAt)
	return err
}

// PrimaryItemIDs returns item ids marked as a cluster primary (or with no
// cluster assignment at all) for a given method — i.e. the set that should
// feed downstream summarization/digest steps without duplication.
func (s *Store) PrimaryItemIDs(method string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT i.id FROM items i
		LEFT JOIN article_clusters ac ON i.id = ac.item_id AND ac.clustering_method = ?
		WHERE ac.is_primary = 1 OR ac.item_id IS NULL`, method)
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
