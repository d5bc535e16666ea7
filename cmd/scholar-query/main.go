// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-query CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the scholar-query CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-query",
	Short: "Compose academic search queries and keep a per-device history",
	Long: `scholar-query turns structured search criteria (exact phrase, excluded
terms, site restriction, filetype, date range) into a search-operator query
string, a human-readable explanation, and a ready-to-open URL for Google,
Google Scholar, or PubMed.

Compiled searches and named favorite queries are persisted per installation:
compile builds a query without saving, search builds and records it, history
and favorites manage the saved records, and serve exposes the same operations
over an HTTP API.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-query.yaml or ~/.config/scholar-query/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the database and device identity (default: ./data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-query")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-query"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_QUERY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
