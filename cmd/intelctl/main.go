package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/threatintel/client"
	"github.com/threatintel/client/internal/logging"
)

var (
	baseURL   string
	statePath string
	debug     bool
	timeout   time.Duration
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "intelctl",
		Short:         "Query threat-intelligence actors, indicators, reports and rule files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitLogger(cmd.ErrOrStderr())
			if debug {
				logging.SetLogLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default $INTEL_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "SQLite file for rule sync state (default $INTEL_STATE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output, including HTTP dumps")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall deadline for the command")

	rootCmd.AddCommand(newActorsCmd())
	rootCmd.AddCommand(newIndicatorsCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newRulesCmd())

	return rootCmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (*client.Config, error) {
	cfg, err := client.LoadConfig()
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	if debug {
		cfg.Debug = true
	}
	logging.SetLogLevel(logLevel(cfg))
	return cfg, nil
}

// logLevel is debug when requested by flag or INTEL_DEBUG, else INTEL_LOG_LEVEL.
func logLevel(cfg *client.Config) zerolog.Level {
	if cfg.Debug {
		return zerolog.DebugLevel
	}
	return logging.ParseLevel(cfg.LogLevel)
}

func newClient() (*client.Client, *client.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	c, err := client.NewFromConfig(cfg, client.WithLogger(log.Logger))
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

// withClient runs fn with a client and a context bounded by --timeout.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client, cfg *client.Config) error) error {
	c, cfg, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	return fn(ctx, c, cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
