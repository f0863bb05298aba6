package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Atticdm/GloCalAI/internal/api"
	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/config"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/progress"
	"github.com/Atticdm/GloCalAI/internal/sse"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPI(ctx)
	if err != nil {
		stdlog.Fatalf("api: load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		stdlog.Fatalf("api: init logger: %v", err)
	}
	defer lg.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		lg.Error("api: connect database failed", "err", err)
		return
	}
	if err := store.Migrate(ctx, db); err != nil {
		lg.Error("api: migrate failed", "err", err)
		return
	}

	conn, err := bus.Dial(ctx, cfg.Bus.URL)
	if err != nil {
		lg.Error("api: dial bus failed", "err", err)
		return
	}
	defer conn.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Progress.RedisAddr, DB: cfg.Progress.RedisDB})
	defer rdb.Close()

	jobHandler := &api.JobHandler{
		Jobs:     store.NewJobRepo(db),
		Variants: store.NewVariantRepo(db),
		DB:       db,
		Bus:      conn,
		Log:      lg,
	}
	eventsHandler := &api.EventsHandler{
		Relay: sse.NewRelay(progress.NewSubscriber(rdb), lg),
	}

	router := api.NewRouter(api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Jobs:           jobHandler,
		Events:         eventsHandler,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	lg.Info("api: starting", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Error("api: listen failed", "err", err)
	}
	lg.Info("api: stopped")
}
