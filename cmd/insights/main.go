// @title Retail Insights API
// @version 1.0
// @description Aggregated product, pricing and marketing insights built from uploaded CSV files.
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"retail-insights/internal/config"
	"retail-insights/pkg/logger"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "insights",
	Short: "Retail insights backend",
	Long: `insights serves product, pricing and marketing views built from uploaded CSV files.

Example usage:
  insights serve                   # Start the HTTP API
  insights summarize products      # Print department summaries of the submission file
  insights notify                  # E-mail the trending report to every user`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err = logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
