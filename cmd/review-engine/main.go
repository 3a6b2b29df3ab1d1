// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the review-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/review-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the review-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "review-engine",
	Short: "Generate literature reviews from directories of academic PDFs",
	Long: `review-engine turns a directory of academic PDF papers into a written
literature review. Each paper's text is extracted and summarized by an AI
model, the summaries are synthesized into a single narrative review, and
the result is written as Markdown with an APA-style bibliography.

Run a review with the run subcommand; past runs are listed with history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is not an error.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./review-engine.yaml or ~/.config/review-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("review-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "review-engine"))
		}
	}

	viper.SetEnvPrefix("REVIEW_ENGINE")
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
