package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"vagondeck/internal/config"
	"vagondeck/internal/logger"
	"vagondeck/internal/server"
	"vagondeck/internal/vagon"
	"vagondeck/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(version.Name, version.Full())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "vagondeck.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment != "production", io.MultiWriter(os.Stdout, rotator))

	if cfg.APIKey == "" || cfg.APISecret == "" {
		logger.Log().Warn("VAGON_API_KEY / VAGON_API_SECRET not set; vendor requests will fail")
	}

	client := vagon.NewClient(cfg.APIKey, cfg.APISecret, cfg.BaseURL)
	srv := server.New(client, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Error("server exited")
		os.Exit(1)
	}
}
