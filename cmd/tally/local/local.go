/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package local

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tally "github.com/dburkart/tally/api"
	"github.com/dburkart/tally/internal/config"
	"github.com/dburkart/tally/pkg/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "local",
	Short: "Ask questions of a dataset loaded in this process",

	Run: func(cmd *cobra.Command, args []string) {
		log := config.Logger()

		opts, err := config.Options()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}

		source := config.Source()
		engine, err := tally.OpenEngine(cmd.Context(), source, opts)
		if err != nil {
			log.Fatal().Err(err).Str("source", source).Msg("unable to load dataset")
		}

		session := repl.NewSession(tally.NewLocalClient(engine, source), os.Stdout, viper.GetString("tally.output"))

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err == io.EOF {
				return
			}
			if err != nil {
				log.Fatal().Err(err).Msg("unable to read input")
			}

			line = strings.TrimSpace(line)
			if strings.ToUpper(line) == "EXIT" {
				return
			}

			if err := session.Handle(line); err != nil {
				log.Error().Err(err).Send()
			}
		}
	},
}
