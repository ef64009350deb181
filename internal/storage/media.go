package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// UpsertMedia inserts m, or replaces the row with the same filename.
func (db *DB) UpsertMedia(m Media) error {
	if len(m.Vector) == 0 {
		return fmt.Errorf("media %q has no vector", m.Filename)
	}

	_, err := db.conn.Exec(`
		INSERT INTO media (filename, path, kind, size, width, height, model, vector, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(filename) DO UPDATE SET
			path = excluded.path,
			kind = excluded.kind,
			size = excluded.size,
			width = excluded.width,
			height = excluded.height,
			model = excluded.model,
			vector = excluded.vector,
			indexed_at = CURRENT_TIMESTAMP
	`, m.Filename, m.Path, m.Kind, m.Size, m.Width, m.Height, m.Model, serializeVector(m.Vector))
	if err != nil {
		return fmt.Errorf("failed to upsert media: %w", err)
	}
	return nil
}

// GetMedia returns the row for filename, or nil when there is none.
func (db *DB) GetMedia(filename string) (*Media, error) {
	row := db.conn.QueryRow(`
		SELECT id, filename, path, kind, size, width, height, model, vector, indexed_at
		FROM media
		WHERE filename = ?
	`, filename)

	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return m, nil
}

// ListMedia returns every row ordered by filename.
func (db *DB) ListMedia() ([]Media, error) {
	rows, err := db.conn.Query(`
		SELECT id, filename, path, kind, size, width, height, model, vector, indexed_at
		FROM media
		ORDER BY filename
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	var media []Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		media = append(media, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media: %w", err)
	}
	return media, nil
}

// DeleteMedia removes the row for filename.
func (db *DB) DeleteMedia(filename string) error {
	if _, err := db.conn.Exec(`DELETE FROM media WHERE filename = ?`, filename); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}

// CountMedia returns the number of indexed files.
func (db *DB) CountMedia() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM media`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedia(s scanner) (*Media, error) {
	var (
		m           Media
		vectorBytes []byte
		indexedAt   sql.NullString
	)
	if err := s.Scan(&m.ID, &m.Filename, &m.Path, &m.Kind, &m.Size, &m.Width, &m.Height, &m.Model, &vectorBytes, &indexedAt); err != nil {
		return nil, err
	}
	m.Vector = deserializeVector(vectorBytes)
	if indexedAt.Valid {
		parsed, err := parseTimestamp(indexedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse indexed_at: %w", err)
		}
		m.IndexedAt = parsed
	}
	return &m, nil
}
