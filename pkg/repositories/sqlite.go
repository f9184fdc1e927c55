package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	room_id TEXT NOT NULL,
	variant TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	blob BLOB NOT NULL,
	PRIMARY KEY (room_id, variant)
);
`

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the snapshot database at path
// and applies the schema.
func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %v", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, roomID, variant string, blob []byte) error {
	compressed, err := CompressBlob(blob)
	if err != nil {
		return fmt.Errorf("failed to compress snapshot: %v", err)
	}
	q := `
	INSERT OR REPLACE INTO snapshots (room_id, variant, updated_at, blob)
	VALUES (?, ?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, roomID, variant, time.Now().UnixMilli(), compressed); err != nil {
		return fmt.Errorf("failed to insert snapshot: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, roomID, variant string) ([]byte, error) {
	q := `
	SELECT blob FROM snapshots WHERE room_id = ? AND variant = ?;
	`
	var compressed []byte
	if err := r.db.QueryRowContext(ctx, q, roomID, variant).Scan(&compressed); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to query snapshot: %v", err)
	}
	return DecompressBlob(compressed)
}

func (r *SQLiteRepository) ListRooms(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT room_id FROM snapshots")
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %v", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var roomID string
		if err := rows.Scan(&roomID); err != nil {
			return nil, fmt.Errorf("failed to scan room: %v", err)
		}
		out = append(out, roomID)
	}
	return out, rows.Err()
}
