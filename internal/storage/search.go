package storage

import (
	"fmt"
	"sort"
)

// SearchSimilar ranks every indexed file against queryVector and returns at
// most limit results whose similarity is strictly above threshold, best
// first. A limit <= 0 returns every match.
func (db *DB) SearchSimilar(queryVector []float32, limit int, threshold float64) ([]SearchResult, error) {
	// Vectors are compared in memory; the index stays small enough for a
	// linear scan.
	rows, err := db.conn.Query(`SELECT filename, kind, vector FROM media`)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			filename    string
			kind        string
			vectorBytes []byte
		)
		if err := rows.Scan(&filename, &kind, &vectorBytes); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		similarity := cosineSimilarity(queryVector, deserializeVector(vectorBytes))
		if similarity > threshold {
			results = append(results, SearchResult{
				Filename:   filename,
				Kind:       kind,
				Similarity: similarity,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	return results, nil
}
