package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/civix/internal/config"
	logpkg "github.com/kailas-cloud/civix/internal/logger"
	"github.com/kailas-cloud/civix/internal/version"
)

var (
	// Global flags
	env      string
	logLevel string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "civix",
	Short:         "civix - civic indicator query service",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `civix answers read-only queries over normalized government indicators
(economy, environment, government, population) for states and districts.

Run "civix serve" for the HTTP API, or query the store directly from the shell.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(env)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logpkg.NewLogger(env, level)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "environment (local, dev, docker, prod); selects config/<env>.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(serveCmd, migrateCmd, queryCmd, placeCmd, aliasesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
