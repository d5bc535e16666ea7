// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists Search and Favorite records in SQLite and
// notifies subscribers with a full replacement snapshot after every
// change. Records are immutable: they are created and deleted, never
// updated. All list and delete-all operations are scoped to an owning
// device identity.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-query/internal/device"
	"github.com/pdiddy/scholar-query/pkg/types"
)

// ErrNameRequired is returned by CreateFavorite when the name is empty
// after trimming.
var ErrNameRequired = errors.New("favorite name is required")

// Store manages the scholar-query SQLite database.
type Store struct {
	db *sql.DB

	// clock guards lastStamp; timestamps handed out by now() are
	// monotonically non-decreasing per store instance.
	clock     sync.Mutex
	lastStamp time.Time

	subs subscribers
}

// Open opens or creates the database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection and closes all subscriber
// channels.
func (s *Store) Close() error {
	s.subs.closeAll()
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			engine TEXT NOT NULL,
			url TEXT NOT NULL,
			explanation TEXT,
			query_data TEXT NOT NULL,
			device_id TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_device ON searches(device_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id TEXT PRIMARY KEY,
			query_name TEXT NOT NULL,
			description TEXT,
			query_data TEXT NOT NULL,
			device_id TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_device ON favorites(device_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// now returns the creation timestamp for a new record, clamped so that
// timestamps never decrease within this store instance.
func (s *Store) now() time.Time {
	s.clock.Lock()
	defer s.clock.Unlock()

	t := time.Now().UTC()
	if t.Before(s.lastStamp) {
		t = s.lastStamp
	}
	s.lastStamp = t
	return t
}

// CreateSearch writes a history entry for a compiled query and returns
// the full record. The owner identity and creation timestamp are stamped
// by the store. On error the caller must not assume the record was
// persisted.
func (s *Store) CreateSearch(ctx context.Context, owner device.Identity, q types.QueryData, compiled, explanation, searchURL string) (types.Search, error) {
	snapshot, err := json.Marshal(q)
	if err != nil {
		return types.Search{}, fmt.Errorf("encoding criteria snapshot: %w", err)
	}

	rec := types.Search{
		ID:          uuid.NewString(),
		Query:       compiled,
		Engine:      string(q.Engine),
		URL:         searchURL,
		Explanation: explanation,
		QueryData:   q,
		DeviceID:    string(owner),
		CreatedAt:   s.now(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, engine, url, explanation, query_data, device_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Engine, rec.URL, rec.Explanation,
		string(snapshot), rec.DeviceID, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return types.Search{}, fmt.Errorf("writing search: %w", err)
	}

	s.notifySearches(ctx, owner)
	return rec, nil
}

// CreateFavorite writes a named criteria template and returns the full
// record. It fails with ErrNameRequired when name trims to empty.
func (s *Store) CreateFavorite(ctx context.Context, owner device.Identity, name, description string, q types.QueryData) (types.Favorite, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Favorite{}, ErrNameRequired
	}

	snapshot, err := json.Marshal(q)
	if err != nil {
		return types.Favorite{}, fmt.Errorf("encoding criteria snapshot: %w", err)
	}

	rec := types.Favorite{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		QueryData:   q,
		DeviceID:    string(owner),
		CreatedAt:   s.now(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (id, query_name, description, query_data, device_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Description, string(snapshot),
		rec.DeviceID, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return types.Favorite{}, fmt.Errorf("writing favorite: %w", err)
	}

	s.notifyFavorites(ctx, owner)
	return rec, nil
}

// Searches returns the owner's history, newest first.
func (s *Store) Searches(ctx context.Context, owner device.Identity) ([]types.Search, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, engine, url, explanation, query_data, device_id, created_at
		 FROM searches WHERE device_id = ?
		 ORDER BY created_at DESC, id`,
		string(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var results []types.Search
	for rows.Next() {
		var (
			rec         types.Search
			explanation sql.NullString
			deviceID    sql.NullString
			snapshot    string
			createdAt   int64
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Engine, &rec.URL,
			&explanation, &snapshot, &deviceID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}

		// Criteria snapshots are validated at the boundary; a row whose
		// snapshot no longer parses is skipped rather than surfaced with
		// zero-valued criteria.
		if err := json.Unmarshal([]byte(snapshot), &rec.QueryData); err != nil {
			continue
		}

		rec.Explanation = explanation.String
		rec.DeviceID = deviceID.String
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Favorites returns the owner's favorites, newest first.
func (s *Store) Favorites(ctx context.Context, owner device.Identity) ([]types.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query_name, description, query_data, device_id, created_at
		 FROM favorites WHERE device_id = ?
		 ORDER BY created_at DESC, id`,
		string(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var results []types.Favorite
	for rows.Next() {
		var (
			rec         types.Favorite
			description sql.NullString
			deviceID    sql.NullString
			snapshot    string
			createdAt   int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &description,
			&snapshot, &deviceID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning favorite row: %w", err)
		}

		if err := json.Unmarshal([]byte(snapshot), &rec.QueryData); err != nil {
			continue
		}

		rec.Description = description.String
		rec.DeviceID = deviceID.String
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		results = append(results, rec)
	}
	return results, rows.Err()
}

// DeleteSearch removes one history entry. Deleting an absent id is not
// an error.
func (s *Store) DeleteSearch(ctx context.Context, owner device.Identity, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting search %s: %w", id, err)
	}
	s.notifySearches(ctx, owner)
	return nil
}

// DeleteFavorite removes one favorite. Deleting an absent id is not an
// error.
func (s *Store) DeleteFavorite(ctx context.Context, owner device.Identity, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting favorite %s: %w", id, err)
	}
	s.notifyFavorites(ctx, owner)
	return nil
}

// ClearSearches deletes the owner's entire history. Only records stamped
// with the owner identity are touched; other installations sharing the
// database keep their history.
func (s *Store) ClearSearches(ctx context.Context, owner device.Identity) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM searches WHERE device_id = ?`, string(owner)); err != nil {
		return fmt.Errorf("clearing searches: %w", err)
	}
	s.notifySearches(ctx, owner)
	return nil
}
