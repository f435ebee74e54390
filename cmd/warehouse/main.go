package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covid-warehouse/internal/config"
	"covid-warehouse/internal/fetch"
	"covid-warehouse/internal/model"
	"covid-warehouse/internal/pipeline"
	"covid-warehouse/internal/storage"
	"covid-warehouse/internal/store"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults apply when empty)")
	mode := flag.String("mode", "once", "run mode: once or scheduled")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := store.InitDB(cfg.Tracking.Path); err != nil {
		log.Fatalf("failed to init run store: %v", err)
	}

	switch *mode {
	case "once":
		if err := runOnce(context.Background(), cfg); err != nil {
			log.Fatalf("run failed: %v", err)
		}
	case "scheduled":
		runScheduled(cfg)
	default:
		log.Printf("unknown mode: %s (available: once, scheduled)", *mode)
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, cfg config.Config) error {
	warehouse, err := storage.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer warehouse.Close()

	runID := uuid.New().String()
	if err := store.SaveRun(runID, cfg.Storage.Backend); err != nil {
		return err
	}
	store.UpdateRunStatus(runID, model.RunStatusRunning)

	fetcher := fetch.NewClient(cfg.Fetch, cfg.FetchTimeout(), cfg.FetchInitialDelay())
	runner := pipeline.NewRunner(fetcher, warehouse, store.NewRecorder()).
		WithURLOverrides(cfg.Datasets)

	if err := runner.Run(ctx, runID); err != nil {
		store.UpdateRunStatus(runID, model.RunStatusFailed)
		return err
	}
	return store.UpdateRunStatus(runID, model.RunStatusCompleted)
}

// runScheduled re-runs the pipeline on the configured interval until
// SIGINT/SIGTERM.
func runScheduled(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("shutdown signal received, stopping scheduler")
		cancel()
	}()

	scheduler := gocron.NewScheduler(time.UTC)
	interval := cfg.ScheduleInterval()
	log.Printf("scheduling warehouse run every %v", interval)

	_, err := scheduler.Every(interval).Do(func() {
		if err := runOnce(ctx, cfg); err != nil {
			log.Printf("scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to schedule runs: %v", err)
	}

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()
}
