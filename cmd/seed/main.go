package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"gamereview/backend/internal/config"
	"gamereview/backend/internal/database"
	"gamereview/backend/internal/logging"
	"gamereview/backend/internal/repository"
	"gamereview/backend/internal/seed"
)

func main() {
	file := flag.String("file", "games.json", "JSON array of games to import")
	flag.Parse()

	cfg, err := config.Load(".")
	if err != nil && !errors.Is(err, config.ErrEnvFileMissing) {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("Unable to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("open import file", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	records, err := seed.Decode(f)
	if err != nil {
		logger.Fatal("read import file", zap.String("file", *file), zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}

	res, err := seed.NewImporter(repository.NewGameRepository(db), logger).Import(context.Background(), records)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err),
			zap.Int("inserted", res.Inserted), zap.Int("updated", res.Updated))
	}
	logger.Info("import complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
	)
}
