package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"

	"lottery-odds/internal/infrastructure/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connect 建立 PostgreSQL 連線池；若未設定 DSN 則回傳 nil。
// 連線失敗時以指數退避重試 cfg.ConnectRetries 次。
func Connect(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 30 * time.Second
	var policy backoff.BackOff = bo
	if cfg.ConnectRetries > 0 {
		policy = backoff.WithMaxRetries(bo, uint64(cfg.ConnectRetries))
	}

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	if err := backoff.Retry(ping, backoff.WithContext(policy, ctx)); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
