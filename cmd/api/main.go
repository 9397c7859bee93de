package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lottery-odds/internal/application/auth"
	"lottery-odds/internal/application/catalog"
	"lottery-odds/internal/application/refresh"
	"lottery-odds/internal/application/view"
	"lottery-odds/internal/infra/memory"
	authinfra "lottery-odds/internal/infrastructure/auth"
	"lottery-odds/internal/infrastructure/config"
	"lottery-odds/internal/infrastructure/db"
	"lottery-odds/internal/infrastructure/external/dira"
	"lottery-odds/internal/infrastructure/logger"
	"lottery-odds/internal/infrastructure/metrics"
	"lottery-odds/internal/infrastructure/persistence/postgres"
	"lottery-odds/internal/infrastructure/persistence/sqlite"
	httpapi "lottery-odds/internal/interface/http"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := authinfra.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: load config failed: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)
	log.WithField("addr", cfg.HTTP.Addr).WithField("storage", cfg.Storage.Driver).Info("configuration loaded")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pool, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	client := dira.NewClient(cfg.Upstream.URLs, cfg.Upstream.Timeout)
	snapshots := refresh.NewService(client,
		refresh.WithStore(store),
		refresh.WithLogger(log),
		refresh.WithRecorder(m),
	)

	warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := snapshots.Warm(warmCtx); err != nil {
		log.WithError(err).Info("no stored snapshot; first request will fetch upstream")
	}
	cancel()

	if cfg.Refresh.IsEnabled() {
		worker := refresh.NewWorker(snapshots, cfg.Refresh.Interval, log)
		worker.Start()
		defer worker.Stop()
	}

	sessions := view.NewSessions(cfg.View.SessionTTL)
	go sweepSessions(ctx, sessions, log)

	tokens := authinfra.NewJWTIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if cfg.Auth.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH not set; admin login disabled")
	}

	if _, err := os.Stat(cfg.Static.Dir); cfg.Static.Dir != "" && err != nil {
		log.WithField("dir", cfg.Static.Dir).Warn("static directory not found")
	}

	gin.SetMode(gin.ReleaseMode)
	api := httpapi.NewServer(httpapi.Deps{
		Snapshots:     snapshots,
		Catalog:       catalog.NewService(snapshots, log),
		Engine:        view.NewEngine(view.NewFormatter(cfg.View.Locale)),
		Sessions:      sessions,
		Login:         auth.NewService(cfg.Auth.AdminUser, cfg.Auth.AdminPasswordHash, authinfra.BcryptHasher{}, tokens),
		Tokens:        tokens,
		Metrics:       m,
		Logger:        log,
		DB:            pool,
		StorageDriver: cfg.Storage.Driver,
		StaticDir:     cfg.Static.Dir,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// openStore 依設定選擇快照的持久化方式；postgres 連線失敗時退回記憶體。
func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (refresh.SnapshotStore, *sql.DB, func(), error) {
	noop := func() {}
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("open sqlite store: %w", err)
		}
		log.WithField("path", cfg.Storage.SQLitePath).Info("using sqlite snapshot store")
		return s, nil, func() { _ = s.Close() }, nil
	case config.StoragePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		pool, err := db.Connect(connectCtx, cfg.DB)
		if err != nil || pool == nil {
			log.WithError(err).Warn("database connection failed, falling back to in-memory store")
			return memory.NewStore(), nil, noop, nil
		}
		log.Info("database connected successfully")
		return postgres.NewSnapshotRepo(pool), pool, func() { _ = pool.Close() }, nil
	default:
		return memory.NewStore(), nil, noop, nil
	}
}

func sweepSessions(ctx context.Context, sessions *view.Sessions, log *logger.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.WithField("expired", n).Debug("sessions swept")
			}
		}
	}
}
