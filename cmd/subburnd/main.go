// Command subburnd runs the caption burn-in daemon: the HTTP API, the job
// pipelines, and retention housekeeping.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"subburn/internal/config"
	"subburn/internal/daemon"
	"subburn/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Run(ctx); err != nil {
		log.Fatalf("run daemon: %v", err)
	}
}
