package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lottery-odds/internal/application/refresh"
	"lottery-odds/internal/domain/lottery"
)

// snapshotID 為單列快照的固定主鍵。
const snapshotID = 1

// SnapshotRepo 以 Postgres 保存最近一次成功的上游快照（單列覆寫）。
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo 建立 Postgres 快照存取實例。
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save 整筆覆寫快照。
func (r *SnapshotRepo) Save(ctx context.Context, snap refresh.StoredSnapshot) error {
	const q = `
INSERT INTO lottery_snapshots (id, payload, fetched_at)
VALUES ($1, $2, $3)
ON CONFLICT (id)
DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at, updated_at = NOW();
`
	if _, err := r.db.ExecContext(ctx, q, snapshotID, snap.Payload, snap.FetchedAt.UTC()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load 讀取快照；沒有資料時回傳 lottery.ErrNoCache。
func (r *SnapshotRepo) Load(ctx context.Context) (refresh.StoredSnapshot, error) {
	const q = `
SELECT payload, fetched_at
FROM lottery_snapshots
WHERE id = $1;
`
	var snap refresh.StoredSnapshot
	err := r.db.QueryRowContext(ctx, q, snapshotID).Scan(&snap.Payload, &snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return refresh.StoredSnapshot{}, lottery.ErrNoCache
	}
	if err != nil {
		return refresh.StoredSnapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}
