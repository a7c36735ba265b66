package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradepath/internal/config"
	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/store"
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gradepath",
	Short: "Student final grade predictor with study recommendations",
	Long: "GradePath predicts a student's final grade (G3, 0-20) from a profile, " +
		"classifies it into a performance tier and suggests what to work on.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error from Execute to a process exit status: 2 for bad
// input, 1 for everything else.
func ExitCode(err error) int {
	var invalid *profile.InvalidInputError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &invalid), errors.Is(err, os.ErrNotExist):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides "+config.PathEnvVar+")")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GRADEPATH_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration, applies flag overrides and sets up
// the stderr logger.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.Store.Path = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		c.Log.Level = l
	}
	logging.Init(c.Log)
	cfg = c
	return nil
}

// resolveDBPath returns the database path from --db or config first,
// then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
