// Package cmd wires the mmtrader CLI. The bare command starts the
// dashboard; subcommands cover the same bot API operations for scripting.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/110782829/moomoo-chatgpt-trader/internal/api"
	"github.com/110782829/moomoo-chatgpt-trader/internal/settings"
)

var (
	version string

	baseDir  string
	apiFlag  string
	logFlag  string
	cfg      *settings.Settings
	logger   *slog.Logger
	logClose io.Closer
)

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "mmtrader",
	Short: "Terminal dashboard for the moomoo trading bot",
	Long: `mmtrader - a terminal front-end for the moomoo ChatGPT trading bot.

Running it with no arguments opens the dashboard. Subcommands expose the
same bot API for scripting: accounts, positions, orders, risk limits and
MA-crossover backtests.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDash()
	},
}

// Execute runs the root command.
func Execute() {
	defer func() {
		if logClose != nil {
			logClose.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "bot API base URL (default from settings or http://127.0.0.1:8000)")
	rootCmd.PersistentFlags().StringVar(&logFlag, "log-file", "", "write debug logs to this file")
	cobra.OnInitialize(initConfig)
}

// initConfig resolves the base directory, loads settings and sets up
// logging before any command runs.
func initConfig() {
	var err error
	baseDir, err = os.UserHomeDir()
	if err != nil {
		baseDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot determine base directory: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err = settings.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load settings: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	if apiFlag != "" {
		cfg.APIBaseURL = apiFlag
	}

	logger = newLogger()
	slog.SetDefault(logger)
}

// newLogger logs to the configured file. The dashboard owns the terminal,
// so without a file the logs are discarded rather than corrupting the UI.
func newLogger() *slog.Logger {
	path := logFlag
	if path == "" {
		path = cfg.LogFile
	}
	if path == "" {
		return slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			logClose = f
			return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}
	fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s\n", path)
	return slog.New(slog.DiscardHandler)
}

func newClient() *api.Client {
	return api.New(cfg.APIBaseURL, api.WithLogger(logger))
}

// getBaseDir returns the directory settings and history live under.
func getBaseDir() string {
	return baseDir
}
