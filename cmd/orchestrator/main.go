package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/config"
	"github.com/Atticdm/GloCalAI/internal/orchestrator"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/progress"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadOrchestrator(ctx)
	if err != nil {
		log.Fatalf("orchestrator: load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("orchestrator: init logger: %v", err)
	}
	defer lg.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		lg.Error("orchestrator: connect database failed", "err", err)
		return
	}
	if err := store.Migrate(ctx, db); err != nil {
		lg.Error("orchestrator: migrate failed", "err", err)
		return
	}

	conn, err := bus.Dial(ctx, cfg.Bus.URL)
	if err != nil {
		lg.Error("orchestrator: dial bus failed", "err", err)
		return
	}
	defer conn.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Progress.RedisAddr, DB: cfg.Progress.RedisDB})
	defer rdb.Close()

	engine := orchestrator.New(
		store.NewJobRepo(db),
		store.NewVariantRepo(db),
		store.NewAssetRepo(db),
		store.NewVoiceProfileRepo(db),
		conn,
		progress.NewPublisher(rdb),
		lg,
	)

	lg.Info("orchestrator: starting")
	if err := engine.Run(ctx, conn); err != nil && ctx.Err() == nil {
		lg.Error("orchestrator: run failed", "err", err)
	}
	lg.Info("orchestrator: stopped")
}
