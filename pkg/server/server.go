/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/query"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	log     zerolog.Logger
	metrics MetricsStore

	engine  *query.Engine
	source  string
	started time.Time

	port        int
	metricsPort int
}

func New(log zerolog.Logger, engine *query.Engine, source string, port, metricsPort int) *Server {
	metrics := NewMetricsStore()
	metrics.RegisterCollector(NewDatasetStatsCollector(engine.Dataset(), source))

	return &Server{
		log:         log,
		metrics:     metrics,
		engine:      engine,
		source:      source,
		started:     time.Now(),
		port:        port,
		metricsPort: metricsPort,
	}
}

func (s *Server) Metrics() MetricsStore {
	return s.metrics
}

// Serve runs the query listener and the metrics endpoint until ctx is done
// or one of them fails.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.ServeQueries(ctx)
	})
	g.Go(func() error {
		return s.ServeMetrics(ctx)
	})

	return g.Wait()
}

func (s *Server) ServeQueries(ctx context.Context) error {
	srv := NewMessageServer(s.log, s.metrics)
	return srv.ListenAndServe(ctx, s.port, s.Mux())
}

func (s *Server) ServeMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.metricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	s.log.Info().Int("port", s.metricsPort).Msg("/metrics endpoint started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "metrics endpoint failed")
	}
	return nil
}

// Mux wires every protocol command to its handler.
func (s *Server) Mux() MessageMux {
	mux := NewMapMux()

	mux.Handle(proto.CommandVersion, s.instrument(func(w io.Writer, msg proto.Message, log zerolog.Logger) {
		var req proto.VersionRequest
		if err := proto.Unmarshal(msg.Data(), &req); err != nil {
			proto.NewResponseWriter(w).WriteMessage(proto.MessageErrorUnmarshaling)
			return
		}
		log.Debug().Str("client-version", req.Version).Msg("version announced")
		proto.NewResponseWriter(w).WriteMessage(VersionResponse(req))
	}))

	mux.Handle(proto.CommandHelp, s.instrument(func(w io.Writer, msg proto.Message, _ zerolog.Logger) {
		proto.NewResponseWriter(w).WriteMessage(HelpResponse(proto.HelpRequest{}))
	}))

	mux.Handle(proto.CommandStats, s.instrument(func(w io.Writer, msg proto.Message, _ zerolog.Logger) {
		resp := StatsResponse(proto.StatsRequest{}, s.engine.Dataset(), s.source, time.Since(s.started))
		proto.NewResponseWriter(w).WriteMessage(resp)
	}))

	mux.Handle(proto.CommandQuery, s.instrument(func(w io.Writer, msg proto.Message, log zerolog.Logger) {
		var req proto.QueryRequest
		if err := proto.Unmarshal(msg.Data(), &req); err != nil {
			proto.NewResponseWriter(w).WriteMessage(proto.MessageErrorUnmarshaling)
			return
		}

		resp, outcome := QueryResponse(req, s.engine)
		s.metrics.IncQueries(outcome.Kind, outcome.Result)

		event := log.Info()
		if outcome.Result == OutcomeError {
			event = log.Error().Err(outcome.Err)
		}
		event.
			Str("query", req.Query).
			Str("kind", outcome.Kind).
			Str("outcome", outcome.Result).
			Msg("answered query")

		proto.NewResponseWriter(w).WriteMessage(resp)
	}))

	return mux
}

type instrumentedHandler func(io.Writer, proto.Message, zerolog.Logger)

// instrument gives every request an id and records its count and latency.
// A handler that panics answers with a 500 error instead of taking the
// connection down.
func (s *Server) instrument(f instrumentedHandler) HandleMessage {
	return func(w io.Writer, msg proto.Message) {
		start := time.Now()
		log := s.log.With().Str("request", uuid.NewString()).Logger()

		defer func() {
			s.metrics.IncRequests(msg.Command())
			s.metrics.ObserveResponseNS(msg.Command(), time.Since(start).Nanoseconds())
		}()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("cmd", msg.Command()).Msg("handler panicked")
				proto.NewResponseWriter(w).WriteMessage(proto.MessageError)
			}
		}()

		f(w, msg, log)
	}
}
