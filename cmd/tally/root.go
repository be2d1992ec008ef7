/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tally

import (
	"fmt"
	"os"
	"strings"

	"github.com/dburkart/tally/cmd/tally/ask"
	"github.com/dburkart/tally/cmd/tally/bench"
	"github.com/dburkart/tally/cmd/tally/client"
	"github.com/dburkart/tally/cmd/tally/holidays"
	"github.com/dburkart/tally/cmd/tally/local"
	"github.com/dburkart/tally/cmd/tally/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "tally",
		Short: "Tally answers plain language questions about daily revenue",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initEnv()
			initLogging()
			initLogLevel()
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
		},
		Version: Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace)")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs")
	rootCmd.PersistentFlags().StringP("host", "H", "tally://localhost:8001", "Server to ask, or a dataset to load in process")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format of results [csv, json, text]")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the tally config file (default ./config.toml)")
	rootCmd.PersistentFlags().StringP("source", "s", "", "Dataset to load: a .xlsx, .csv or .db path, sqlite://<path> or sheets://<id>")
	rootCmd.PersistentFlags().String("sheet", "", "Worksheet to read from an xlsx workbook")
	rootCmd.PersistentFlags().String("table", "", "Table to read from a sqlite database")
	rootCmd.PersistentFlags().String("credentials", "", "Service account json for Google Sheets")
	rootCmd.PersistentFlags().String("reversed-range", "reject", "What to do with ranges that end before they start [reject, swap, pass]")

	// Bind viper config to the root flags
	viper.BindPFlag("tally.local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("tally.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("tally.host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("tally.output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("dataset.source", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("dataset.sheet", rootCmd.PersistentFlags().Lookup("sheet"))
	viper.BindPFlag("dataset.table", rootCmd.PersistentFlags().Lookup("table"))
	viper.BindPFlag("dataset.credentials", rootCmd.PersistentFlags().Lookup("credentials"))
	viper.BindPFlag("query.reversed-range", rootCmd.PersistentFlags().Lookup("reversed-range"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("tally version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	// Bind viper keys to TALLY_ prefixed environment variables,
	// e.g. TALLY_DATASET_SOURCE
	viper.SetEnvPrefix("TALLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Register commands on the root binary command
	for _, cmd := range []*cobra.Command{server.Command, client.Command, local.Command, ask.Command, bench.Command, holidays.Command} {
		cmd.Version = rootCmd.Version
		rootCmd.AddCommand(cmd)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("root command failed")
		os.Exit(1)
	}
}
