package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"syscall"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/config"
	"github.com/Atticdm/GloCalAI/internal/objectstore"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/Atticdm/GloCalAI/internal/worker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorker(ctx)
	if err != nil {
		stdlog.Fatalf("worker: load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		stdlog.Fatalf("worker: init logger: %v", err)
	}
	defer lg.Sync()
	lg = lg.With("stage", cfg.Stage)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		lg.Error("worker: connect database failed", "err", err)
		return
	}

	conn, err := bus.Dial(ctx, cfg.Bus.URL)
	if err != nil {
		lg.Error("worker: dial bus failed", "err", err)
		return
	}
	defer conn.Close()

	objStore, err := objectstore.New(ctx, objectstore.Config{
		Bucket:       cfg.ObjectStore.Bucket,
		Region:       cfg.ObjectStore.Region,
		Endpoint:     cfg.ObjectStore.Endpoint,
		AccessKey:    cfg.ObjectStore.AccessKey,
		SecretKey:    cfg.ObjectStore.SecretKey,
		UsePathStyle: cfg.ObjectStore.UsePathStyle,
	})
	if err != nil {
		lg.Error("worker: init object store failed", "err", err)
		return
	}

	processor, err := worker.NewProcessor(cfg.Stage, objStore, worker.NewMediaTool())
	if err != nil {
		lg.Error("worker: build processor failed", "err", err)
		return
	}

	runner := &worker.Runner{
		Processor: processor,
		Variants:  store.NewVariantRepo(db),
		Bus:       conn,
		Store:     objStore,
		Log:       lg,
	}

	lg.Info("worker: starting")
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Error("worker: run failed", "err", err)
	}
	lg.Info("worker: stopped")
}
