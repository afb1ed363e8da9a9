package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/parser"
)

var (
	dbPath     string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "gameplan",
	Short: "Football play-by-play tendency reports",
	Long:  "Import game breakdown sheets and compute offensive tendency reports for opponent scouting.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".gameplan", "plays.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database or postgres:// URL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML column mapping for game sheets")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playsCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(callsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// loadConfig returns the sheet config from --config, or the defaults.
func loadConfig() (parser.Config, error) {
	if configPath == "" {
		return parser.DefaultConfig(), nil
	}
	return parser.LoadConfig(configPath)
}
