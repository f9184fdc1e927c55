package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	room_id TEXT NOT NULL,
	variant TEXT NOT NULL,
	updated_at BIGINT NOT NULL,
	blob BYTEA NOT NULL,
	PRIMARY KEY (room_id, variant)
);
`

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to the database and applies the
// schema. The caller is responsible for calling Close().
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %v", err)
	}
	return &PostgresRepository{conn: conn}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveSnapshot(ctx context.Context, roomID, variant string, blob []byte) error {
	compressed, err := CompressBlob(blob)
	if err != nil {
		return fmt.Errorf("failed to compress snapshot: %v", err)
	}
	q := `
	INSERT INTO snapshots (room_id, variant, updated_at, blob) VALUES ($1, $2, $3, $4)
	ON CONFLICT (room_id, variant) DO UPDATE SET updated_at = $3, blob = $4;
	`
	if _, err := r.conn.Exec(ctx, q, roomID, variant, time.Now().UnixMilli(), compressed); err != nil {
		return fmt.Errorf("failed to insert snapshot: %v", err)
	}
	return nil
}

func (r *PostgresRepository) LoadSnapshot(ctx context.Context, roomID, variant string) ([]byte, error) {
	q := `
	SELECT blob FROM snapshots WHERE room_id = $1 AND variant = $2;
	`
	var compressed []byte
	if err := r.conn.QueryRow(ctx, q, roomID, variant).Scan(&compressed); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to query snapshot: %v", err)
	}
	return DecompressBlob(compressed)
}

func (r *PostgresRepository) ListRooms(ctx context.Context) ([]string, error) {
	rows, err := r.conn.Query(ctx, "SELECT DISTINCT room_id FROM snapshots")
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
