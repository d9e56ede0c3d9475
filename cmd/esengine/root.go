package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/config"
	logpkg "github.com/kailas-cloud/esengine/internal/logger"
)

var (
	envFlag    string
	configFlag string

	// Populated by PersistentPreRunE for every subcommand.
	env    string
	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "esengine",
	Short: "Elasticsearch search backend for an LMS host",
	Long: `esengine indexes host documents into an Elasticsearch-compatible service
and runs searches whose hits are re-checked against the host before they are returned.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env = envFlag
		if env == "" {
			env = config.GetEnv()
		}

		var err error
		if configFlag != "" {
			cfg, err = config.LoadFile(configFlag)
		} else {
			cfg, err = config.Load(env)
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, err = logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "Environment name (local, dev, prod); overrides ENV")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to a config file; overrides --env lookup")
}
