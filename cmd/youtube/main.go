package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"syscall"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/config"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/youtube"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadYoutube(ctx)
	if err != nil {
		stdlog.Fatalf("youtube: load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		stdlog.Fatalf("youtube: init logger: %v", err)
	}
	defer lg.Sync()

	conn, err := bus.Dial(ctx, cfg.Bus.URL)
	if err != nil {
		lg.Error("youtube: dial bus failed", "err", err)
		return
	}
	defer conn.Close()

	consumer := &youtube.Consumer{
		Processor: youtube.StubProcessor{Log: lg},
		Log:       lg,
	}

	lg.Info("youtube: starting")
	if err := consumer.Run(ctx, conn); err != nil && ctx.Err() == nil {
		lg.Error("youtube: run failed", "err", err)
	}
	lg.Info("youtube: stopped")
}
