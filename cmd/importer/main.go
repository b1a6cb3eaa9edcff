// Command importer loads one CSV export into the snapshot database.
//
//	importer -db ./data/studio.db -dataset sessions -file sessions.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/godilite/studio-insights/internal/config"
	"github.com/godilite/studio-insights/internal/records"
	"github.com/godilite/studio-insights/internal/repository"
	"github.com/godilite/studio-insights/pkg/cache"
	dbbuilder "github.com/godilite/studio-insights/pkg/database"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DBPath, "snapshot database path")
	dataset := flag.String("dataset", "", "dataset to replace (sessions, sales, payroll, memberships, leads, discounts)")
	file := flag.String("file", "", "CSV export to import")
	redisAddr := flag.String("redis", "", "optional Redis address; purges cached dashboard entries after the import")
	flag.Parse()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *dataset == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, logger, cfg.DBDriver, *dbPath, records.Dataset(*dataset), *file, *redisAddr); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, driver, dbPath string, dataset records.Dataset, file, redisAddr string) error {
	src, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer src.Close()

	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(driver),
		dbbuilder.WithDataSource(dbPath),
		dbbuilder.WithMaxOpenConns(1),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewSnapshotRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	n, err := repository.NewImporter(db).Import(ctx, dataset, src)
	if err != nil {
		return err
	}
	version, err := repo.SnapshotVersion(ctx)
	if err != nil {
		return err
	}
	logger.Info("import completed",
		zap.String("dataset", string(dataset)),
		zap.Int("rows", n),
		zap.Int64("snapshot_version", version))

	if redisAddr == "" {
		return nil
	}
	c, err := cache.New(ctx, cache.WithAddress(redisAddr))
	if err != nil {
		logger.Warn("cache purge skipped", zap.Error(err))
		return nil
	}
	defer c.Close()

	purged, err := c.DeleteMatching(ctx, "dash:*")
	if err != nil {
		logger.Warn("cache purge failed", zap.Error(err))
		return nil
	}
	logger.Info("purged cached dashboard entries", zap.Int("keys", purged))
	return nil
}
