package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kestrelsec/warden/internal/config"
	"github.com/kestrelsec/warden/internal/database"
	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/logger"
	"github.com/kestrelsec/warden/internal/metrics"
	"github.com/kestrelsec/warden/internal/server"
	"github.com/kestrelsec/warden/internal/services"
	"github.com/kestrelsec/warden/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "warden.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.WithFields(map[string]interface{}{
		"version": version.Full(),
		"env":     cfg.Environment,
	}).Infof("starting %s", version.Name)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	g := gate.New()
	g.Subscribe(metrics.GateSink{})
	g.Subscribe(services.NewAuditService(db))
	if len(cfg.NotifyURLs) > 0 {
		g.Subscribe(services.NewNotifier(cfg.NotifyURLs))
	}
	if err := g.Initialize(cfg.GateConfig()); err != nil {
		log.Fatalf("initialize gate: %v", err)
	}

	// Expired windows and block entries are already invisible to readers;
	// the sweep keeps the maps bounded under high-cardinality identifiers.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 5m", func() {
		windows, blocks := g.Sweep()
		if windows > 0 || blocks > 0 {
			logger.WithFields(map[string]interface{}{
				"windows": windows,
				"blocks":  blocks,
			}).Debug("swept expired gate entries")
		}
	}); err != nil {
		log.Fatalf("schedule sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv, err := server.New(g, db, cfg)
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
