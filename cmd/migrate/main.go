package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"lottery-odds/internal/infrastructure/config"
	"lottery-odds/internal/infrastructure/logger"

	_ "github.com/lib/pq"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	migrationsPath := flag.String("dir", "db/migrations", "path to migrations directory")
	flag.Parse()

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if cfg.DB.DSN == "" {
		log.Fatal("db.dsn is not set; cannot run migrations")
	}

	absDir, err := filepath.Abs(*migrationsPath)
	if err != nil {
		log.WithError(err).Fatal("resolve migrations path failed")
	}
	if _, err := os.Stat(absDir); err != nil {
		log.WithError(err).Fatal("migrations directory not found")
	}

	files, err := filepath.Glob(filepath.Join(absDir, "*.sql"))
	if err != nil {
		log.WithError(err).Fatal("list migrations failed")
	}
	if len(files) == 0 {
		log.Fatal("no .sql migration files found")
	}
	sort.Strings(files)

	db, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("open database failed")
	}
	defer db.Close()

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			log.WithError(err).WithField("file", f).Fatal("read migration failed")
		}
		name := filepath.Base(f)
		log.WithField("file", name).Info("applying migration")
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			log.WithError(err).WithField("file", name).Fatal("migration failed")
		}
	}

	log.WithField("count", len(files)).Info("migrations complete")
}
