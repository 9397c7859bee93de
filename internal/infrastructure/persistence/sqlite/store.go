// Package sqlite 以 SQLite 檔案保存最近一次成功的快照。
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lottery-odds/internal/application/refresh"
	"lottery-odds/internal/domain/lottery"
)

const schema = `
CREATE TABLE IF NOT EXISTS lottery_snapshots (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    BLOB    NOT NULL,
	fetched_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store 為 SQLite 版快照儲存。
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open 開啟（必要時建立）資料庫檔案並建立資料表。
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close 關閉資料庫。
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save 整筆覆寫快照。
func (s *Store) Save(ctx context.Context, snap refresh.StoredSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO lottery_snapshots (id, payload, fetched_at, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   payload = excluded.payload,
		   fetched_at = excluded.fetched_at,
		   updated_at = excluded.updated_at`,
		snap.Payload,
		toMillis(snap.FetchedAt),
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load 讀取快照；沒有資料時回傳 lottery.ErrNoCache。
func (s *Store) Load(ctx context.Context) (refresh.StoredSnapshot, error) {
	var (
		payload []byte
		fetched int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload, fetched_at FROM lottery_snapshots WHERE id = 1`).Scan(&payload, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return refresh.StoredSnapshot{}, lottery.ErrNoCache
	}
	if err != nil {
		return refresh.StoredSnapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return refresh.StoredSnapshot{Payload: payload, FetchedAt: fromMillis(fetched)}, nil
}
