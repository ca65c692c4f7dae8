package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hostelbook-client/internal/api"
	"hostelbook-client/internal/auth"
	"hostelbook-client/internal/config"
	"hostelbook-client/internal/jobs"
	"hostelbook-client/internal/logger"
	"hostelbook-client/internal/notify"
	"hostelbook-client/internal/scheduler"
	"hostelbook-client/internal/status"
	"hostelbook-client/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-once", false, "Run all jobs once and exit")
	flag.Parse()

	// A .env next to the binary is optional.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("starting hostelbook sync daemon", "api", cfg.API.BaseURL, "watches", len(cfg.Scheduler.Watches))

	st, err := store.Open(cfg.DatabaseConnectionString())
	if err != nil {
		logger.Error("failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := st.Init(initCtx); err != nil {
		cancelInit()
		logger.Error("failed to initialize store", "error", err)
		log.Fatalf("Failed to initialize store: %v", err)
	}
	cancelInit()

	client := api.NewClient(cfg.API.BaseURL,
		auth.File{Path: cfg.API.TokenFile},
		api.WithTimeout(cfg.APITimeout()),
	)

	var notifier notify.Notifier = notify.NewLog()
	if cfg.Notify.EmailEnabled {
		notifier = notify.Multi{
			notify.NewLog(),
			notify.NewEmail(cfg.Notify.SendGridAPIKey, cfg.Notify.FromEmail,
				cfg.Notify.FromName, cfg.Notify.ToEmail, cfg.Notify.ToName),
		}
	}

	runner := jobs.NewRunner(client, st, notifier, cfg)

	if *runOnce {
		runner.RunAll()
		return
	}

	sched := scheduler.NewScheduler(runner)
	sched.Start()
	defer sched.Stop()

	statusServer := status.NewServer(cfg.StatusAddress(), st, runner, cfg.Scheduler.Watches)
	go func() {
		if err := statusServer.Start(); err != nil {
			logger.Error("status server failed", "error", err)
		}
	}()

	// Prime the observations so the status endpoint has data immediately.
	go runner.RunAll()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := statusServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("status server shutdown failed", "error", err)
	}
}
