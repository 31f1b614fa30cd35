package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wqkoh/reitwatch/internal/app"
	"github.com/wqkoh/reitwatch/internal/config"
	"github.com/wqkoh/reitwatch/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate one report now and exit",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func runOnce(cmd *cobra.Command, args []string) error {
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

	if _, err := a.RunOnce(cmd.Context()); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
