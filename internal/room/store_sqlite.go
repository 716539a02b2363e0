package room

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLiteStore keeps each room as a JSON document row, with the version
// duplicated into its own column so conditional writes stay a single UPDATE.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Create(ctx context.Context, code string, doc Room) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (code, phase, version, data, updated_at)
		VALUES (?, ?, ?, jsonb(?), strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(code) DO NOTHING
	`, code, string(doc.Phase), doc.Version, string(data))
	if err != nil {
		return storeErr("creating room", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("creating room", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context, code string) (Room, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM rooms WHERE code = ?`, code,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, ErrRoomNotFound
	}
	if err != nil {
		return Room{}, storeErr("reading room", err)
	}

	var doc Room
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Room{}, storeErr("decoding room", err)
	}
	return doc, nil
}

func (s *SQLiteStore) WriteIfVersion(ctx context.Context, code string, expected int64, doc Room) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms
		SET phase = ?, version = ?, data = jsonb(?),
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE code = ? AND version = ?
	`, string(doc.Phase), doc.Version, string(data), code, expected)
	if err != nil {
		return storeErr("writing room", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("writing room", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing matched: distinguish a stale version from a deleted room.
	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE code = ?`, code).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return storeErr("writing room", err)
	}
	return ErrVersionConflict
}

func (s *SQLiteStore) Delete(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE code = ?`, code)
	if err != nil {
		return storeErr("deleting room", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
