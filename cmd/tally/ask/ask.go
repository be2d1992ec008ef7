/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ask

import (
	"os"
	"strings"

	tally "github.com/dburkart/tally/api"
	"github.com/dburkart/tally/internal/config"
	"github.com/dburkart/tally/pkg/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Example: `  tally ask -s Faturamento.xlsx 25/12/2023
  tally ask -H tally://localhost:8001 semana do carnaval 2024`,
	Args: cobra.MinimumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		log := config.Logger()

		opts, err := config.Options()
		if err != nil {
			return err
		}

		// A configured dataset is answered in process, otherwise ask the
		// server.
		target := viper.GetString("tally.host")
		if source := config.Source(); source != "" {
			target = source
		}

		client, err := tally.NewClient(target, opts)
		if err != nil {
			return err
		}
		defer client.Close()

		question := strings.Join(args, " ")
		r, err := client.Ask(question)
		if err != nil {
			return err
		}
		log.Debug().Str("question", question).Str("kind", r.Kind).Msg("answered")

		return repl.NewOutputWriter(os.Stdout, viper.GetString("tally.output")).Write(r)
	},
}
