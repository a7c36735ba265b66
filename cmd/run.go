package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradepath/internal/app"
	"github.com/abhisek/gradepath/internal/logging"
)

// runApp points logging at a file, builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dataDir, err := dataDir()
	if err != nil {
		return err
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(dataDir, "gradepath.log")
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logCfg := cfg.Log
	logCfg.Output = logFile
	logging.Init(logCfg)

	predictor, cleanup := interactivePredictor(ctx)
	defer cleanup()

	opts := app.Options{
		Predictor: predictor,
		Mailer:    buildMailer(ctx),
		ReportDir: reportDir(),
	}
	logging.Info().Str("predictor", predictor.Name()).Msg("starting terminal ui")
	return app.Run(opts)
}

// dataDir is the directory holding the database and, by default, the TUI log.
func dataDir() (string, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	return filepath.Dir(dbPath), nil
}

// reportDir is where saved reports go: the working directory, like a
// browser download.
func reportDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
