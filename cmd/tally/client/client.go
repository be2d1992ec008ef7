/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package client

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	tally "github.com/dburkart/tally/api"
	"github.com/dburkart/tally/internal/config"
	"github.com/dburkart/tally/pkg/normalize"
	"github.com/dburkart/tally/pkg/query"
	"github.com/dburkart/tally/pkg/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "client",
	Short: "Interactive terminal for asking questions of a tally server",

	Run: func(cmd *cobra.Command, args []string) {
		log := config.Logger()
		output := viper.GetString("tally.output")
		if len(filterStringSlice(repl.Formats, output)) != 1 {
			log.Fatal().Str("output", output).Msg("unsupported output format")
		}

		opts, err := config.Options()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}

		host := viper.GetString("tally.host")
		client, err := tally.NewClient(host, opts)
		if err != nil {
			log.Fatal().Err(err).Str("host", host).Msg("unable to connect")
		}
		defer client.Close()

		if err := readlinePrompt(client, output); err != nil {
			log.Fatal().Err(err).Send()
		}
	},
}

func filterStringSlice(s []string, prefix string) []string {
	retList := []string{}
	for i := range s {
		if strings.HasPrefix(s[i], prefix) {
			retList = append(retList, s[i])
		}
	}
	return retList
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// completeEvents offers holiday keywords and month names, without accents so
// they can be typed on any keyboard.
func completeEvents(line string) []string {
	words := []string{}
	for _, m := range query.Months {
		words = append(words, normalize.Normalize(m.Name))
	}
	for _, k := range query.Keywords {
		words = append(words, normalize.Normalize(k.Phrase))
	}
	words = append(words, "semana do carnaval")

	return filterStringSlice(words, normalize.Normalize(line))
}

func readlinePrompt(c tally.Client, output string) error {
	// Configure the completer
	completer := readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("stats"),
		readline.PcItem("version"),
		readline.PcItem("exit"),
		readline.PcItemDynamic(completeEvents),
	)

	// Setup the readline executor
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m>\033[0m ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	session := repl.NewSession(c, os.Stdout, output)

	if welcome, err := c.Help(); err == nil {
		repl.NewOutputWriter(os.Stdout, "text").Write(welcome)
		fmt.Println()
	}

	// Handle input
	for {
		ln := rl.Line()
		if ln.CanContinue() {
			continue
		} else if ln.CanBreak() {
			break
		}
		line := strings.TrimSpace(ln.Line)

		if strings.ToUpper(line) == "EXIT" {
			break
		}

		if err := session.Handle(line); err != nil {
			return err
		}
	}
	rl.Clean()
	return nil
}
