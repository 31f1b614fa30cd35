package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "reitwatch",
	Short: "reitwatch - scheduled Singapore REIT dashboards and digests",
	Long: `reitwatch collects prices and fundamentals for a configured universe of
Singapore REITs, computes momentum and valuation indicators, and publishes
a static dashboard plus a Telegram digest on a weekly schedule.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
