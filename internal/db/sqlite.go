package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// SQLiteBackend держит документ одной строкой в таблице documents.
type SQLiteBackend struct {
	DB   *sql.DB
	name string
}

func OpenSQLite(ctx context.Context, path, name string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, errors.New("sqlite backend: empty path")
	}
	if name == "" {
		name = "posts"
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	if err := InitDatabase(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &SQLiteBackend{DB: conn, name: name}, nil
}

func InitDatabase(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := b.DB.QueryRowContext(ctx, "SELECT body FROM documents WHERE name = ?", b.name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("select document %q: %w", b.name, err)
	}
	return body, nil
}

func (b *SQLiteBackend) Write(ctx context.Context, data []byte) error {
	_, err := b.DB.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		b.name, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert document %q: %w", b.name, err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.DB.Close()
}
