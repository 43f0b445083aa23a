// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-sync CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-sync/internal/config"
	"github.com/pdiddy/paper-sync/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command. Running it with no arguments executes one
// sync: fetch, filter, write.
var rootCmd = &cobra.Command{
	Use:   "paper-sync",
	Short: "Sync newly submitted arXiv papers to Notion, CSV, or SQLite",
	Long: `paper-sync queries the arXiv API for papers submitted in a date window
(yesterday by default), keeps those whose abstracts mention the configured
keywords, and writes one record per paper to the configured sink.

The sink is selected by environment variables: CSV_PATH for a local CSV
file, SQLITE_PATH for a local SQLite database, or NOTION_TOKEN plus
NOTION_DATABASE_ID for a Notion database. Credentials may also live in
.secrets/ as one file per key. A .env file in the working directory is
loaded first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotenv(); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runSync,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-sync.yaml or ~/.config/paper-sync/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-sync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-sync"))
		}
	}

	viper.SetEnvPrefix("PAPER_SYNC")
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
