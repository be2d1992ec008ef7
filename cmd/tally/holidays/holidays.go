/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package holidays

import (
	"os"
	"strconv"
	"time"

	"github.com/dburkart/tally/pkg/holiday"
	"github.com/dburkart/tally/pkg/repl"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "holidays [year]",
	Short: "List the holidays tally knows about for a year",
	Args:  cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		year := time.Now().Year()
		if len(args) == 1 {
			y, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("invalid year %q", args[0])
			}
			year = y
		}
		if year < holiday.MinYear {
			return errors.Errorf("years before %d are not supported", holiday.MinYear)
		}

		table := repl.ObservanceTable(holiday.Brazil().Year(year))
		return repl.NewOutputWriter(os.Stdout, viper.GetString("tally.output")).Write(table)
	},
}
