// Command pricegen serves the car price forms in a browser, drives them from
// the terminal, or renders them offline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-pricegen/internal/config"
	"github.com/goliatone/go-pricegen/internal/logging"
	"github.com/goliatone/go-pricegen/pkg/renderers/tui"
)

var (
	// Global flags
	configPath string
	logLevel   string
	verbose    bool
	apiURL     string

	cfg    config.Config
	logger *zap.Logger

	// promptDriver overrides the survey driver; tests script it.
	promptDriver tui.PromptDriver
)

var rootCmd = &cobra.Command{
	Use:   "pricegen",
	Short: "Car price prediction forms",
	Long: `pricegen fronts a car price prediction service with two forms:
one that adds labeled training rows and one that predicts the price of a car
with three models as you edit it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("api-url") {
			loaded.APIURL = apiURL
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "prediction service base URL")

	rootCmd.AddCommand(serveCmd, predictCmd, trainCmd, retrainCmd, renderCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
