package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"
)

var debug bool
var configFile string
var logFile string
var target string

var logger = zap.NewNop()

func init() {
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.StringVar(&configFile, "c", "", "configuration file (optional)")
	flag.StringVar(&logFile, "logfile", "", "also write logs to this file, rotated by size")
	flag.StringVar(&target, "t", "", "target host:port, overriding the configuration")
}

func main() {
	var err error

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err = newLogger(debug, logFile)
	if err != nil {
		log.Fatalln("failed to create logger:", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Debug("Debug mode enabled")

	cfg := DefaultConfig()

	if configFile != "" {
		cfg, err = LoadConfig(configFile)
		if err != nil {
			logger.Fatal("failed to load configuration", zap.Error(err))
		}
	}

	if target != "" {
		cfg.Target = target
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := NewProber(cfg, os.Stdout).Run(ctx); err != nil {
		logger.Fatal("probe run failed",
			zap.String("target", cfg.Target),
			zap.Error(err),
		)
	}
}
