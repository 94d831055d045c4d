// Package store persists session layer definitions in DuckDB. Geometry
// is stored as GeoJSON text so the spatial extension can query it when
// loaded.
package store

import (
	"database/sql"
	"fmt"
)

// LayerRecord is a persisted layer definition.
type LayerRecord struct {
	Session  string
	ID       string
	Kind     string
	Spec     string // layer spec as JSON
	Geometry string // GeoJSON, empty for groups
}

// Store wraps the shared DuckDB connection.
type Store struct {
	db *sql.DB
}

// New creates a store and ensures its schema exists.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("store: nil database")
	}
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS layers (
		session_id VARCHAR NOT NULL,
		layer_id   VARCHAR NOT NULL,
		kind       VARCHAR NOT NULL,
		spec       VARCHAR NOT NULL,
		geometry   VARCHAR,
		PRIMARY KEY (session_id, layer_id)
	)`)
	if err != nil {
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveLayer inserts or replaces a layer record.
func (s *Store) SaveLayer(rec LayerRecord) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO layers (session_id, layer_id, kind, spec, geometry) VALUES (?, ?, ?, ?, ?)`,
		rec.Session, rec.ID, rec.Kind, rec.Spec, rec.Geometry)
	if err != nil {
		return fmt.Errorf("store: save layer %q: %w", rec.ID, err)
	}
	return nil
}

// DeleteLayer removes a layer record.
func (s *Store) DeleteLayer(session, id string) error {
	_, err := s.db.Exec(`DELETE FROM layers WHERE session_id = ? AND layer_id = ?`, session, id)
	if err != nil {
		return fmt.Errorf("store: delete layer %q: %w", id, err)
	}
	return nil
}

// DeleteSession removes all layer records for a session.
func (s *Store) DeleteSession(session string) error {
	_, err := s.db.Exec(`DELETE FROM layers WHERE session_id = ?`, session)
	if err != nil {
		return fmt.Errorf("store: delete session %q: %w", session, err)
	}
	return nil
}

// Layers returns the persisted records for a session in insertion order.
func (s *Store) Layers(session string) ([]LayerRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_id, layer_id, kind, spec, geometry FROM layers WHERE session_id = ? ORDER BY rowid`,
		session)
	if err != nil {
		return nil, fmt.Errorf("store: list layers: %w", err)
	}
	defer rows.Close()

	var recs []LayerRecord
	for rows.Next() {
		var rec LayerRecord
		var geometry sql.NullString
		if err := rows.Scan(&rec.Session, &rec.ID, &rec.Kind, &rec.Spec, &geometry); err != nil {
			return nil, fmt.Errorf("store: scan layer: %w", err)
		}
		rec.Geometry = geometry.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
