/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tally "github.com/dburkart/tally/api"
	"github.com/dburkart/tally/internal/config"
	"github.com/dburkart/tally/pkg/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "server",
	Short: "Load the dataset and answer questions from clients",

	Run: func(cmd *cobra.Command, args []string) {
		logger := config.Logger()

		opts, err := config.Options()
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid configuration")
		}

		source := config.Source()
		engine, err := tally.OpenEngine(cmd.Context(), source, opts)
		if err != nil {
			logger.Fatal().Err(err).Str("source", source).Msg("unable to load dataset")
		}

		// Initialize the query server
		srv := server.New(
			logger,
			engine,
			source,
			viper.GetInt("tally.port"),
			viper.GetInt("tally.prom-port"),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Serve(ctx); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
		logger.Info().Msg("server shut down")
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", 8001, "Server port for client connections")
	Command.Flags().Int("prom-port", 2112, "Set the port for /metrics")

	// Bind flags to viper
	viper.BindPFlag("tally.port", Command.Flags().Lookup("port"))
	viper.BindPFlag("tally.prom-port", Command.Flags().Lookup("prom-port"))
}
