package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wqkoh/reitwatch/internal/app"
	"github.com/wqkoh/reitwatch/internal/logger"
	"github.com/wqkoh/reitwatch/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run on the configured cron schedule until interrupted",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, a.Metrics().Handler())
		go func() {
			log.Info("metrics endpoint listening",
				zap.String("addr", cfg.Metrics.Addr), zap.String("path", cfg.Metrics.Path))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error("metrics endpoint error", zap.Error(err))
			}
		}()
	}

	job := func(ctx context.Context) {
		if _, err := a.RunOnce(ctx); err != nil {
			log.Error("scheduled run failed", zap.Error(err))
		}
	}

	sched := scheduler.New(log)
	if err := sched.Schedule(cfg.Schedule.Cron, job); err != nil {
		return err
	}

	if cfg.Schedule.RunOnStart {
		job(cmd.Context())
	}

	sched.Start()
	if next, ok := sched.Next(); ok {
		log.Info("scheduler running", zap.Time("next_run", next))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sched.Stop()
	return nil
}
