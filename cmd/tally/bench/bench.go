/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package bench

import (
	"sync"
	"sync/atomic"
	"time"

	tally "github.com/dburkart/tally/api"
	"github.com/dburkart/tally/internal/config"
	"github.com/dburkart/tally/pkg/reply"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Questions covers every expression shape, including ones that fail.
var Questions = []string{
	"25/12/2023",
	"carnaval 2024",
	"semana do carnaval 2024",
	"fevereiro 2024",
	"de 01/01/2024 a 15/01/2024",
	"natal",
	"xyz",
}

var Command = &cobra.Command{
	Use:   "bench",
	Short: "Send a series of sample questions to the server and time them",

	Run: func(cmd *cobra.Command, args []string) {
		log := config.Logger()

		host := viper.GetString("tally.host")
		workers := viper.GetInt("bench.workers")
		if workers < 1 {
			workers = 1
		}

		client, err := tally.NewClientPool(host, uint(workers), tally.Options{})
		if err != nil {
			log.Fatal().Err(err).Str("host", host).Msg("unable to connect to server")
		}
		defer client.Close()

		timeIt(log, "SampleQuestions", func() {
			SampleQuestions(log, client, workers, viper.GetInt("bench.count"))
		})
	},
}

func init() {
	// Flags for this command
	Command.Flags().Int("count", 1000, "Number of questions to send")
	Command.Flags().Int("workers", 10, "Number of concurrent connections")

	// Bind flags to viper
	viper.BindPFlag("bench.count", Command.Flags().Lookup("count"))
	viper.BindPFlag("bench.workers", Command.Flags().Lookup("workers"))
}

func timeIt(log zerolog.Logger, name string, f func()) {
	t := time.Now()
	defer func() {
		log.Info().Str("dur", time.Since(t).String()).Str("name", name).Send()
	}()
	f()
}

// SampleQuestions sends count questions spread over workers goroutines and
// logs how many were answered with an error reply.
func SampleQuestions(log zerolog.Logger, client tally.Client, workers, count int) {
	var wg sync.WaitGroup
	var failed, errored atomic.Int64

	run := uuid.NewString()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < count; i += workers {
				r, err := client.Ask(Questions[i%len(Questions)])
				if err != nil {
					failed.Add(1)
					continue
				}
				if r.Kind == reply.KindError {
					errored.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()

	log.Info().
		Str("run", run).
		Int("sent", count).
		Int64("failed", failed.Load()).
		Int64("error-replies", errored.Load()).
		Msg("bench finished")
}
