/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type MessageMux interface {
	ServeMessage(w io.Writer, msg proto.Message)
	Handle(s string, f HandleMessage)
}

type HandleMessage func(io.Writer, proto.Message)

type MapMux struct {
	handlers map[string]HandleMessage
}

func NewMapMux() MessageMux {
	return &MapMux{
		handlers: make(map[string]HandleMessage),
	}
}

// ServeMessage dispatches msg to its handler. Unknown commands are answered
// with an error message.
func (mm *MapMux) ServeMessage(w io.Writer, msg proto.Message) {
	f, ok := mm.handlers[msg.Command()]
	if !ok {
		proto.NewResponseWriter(w).WriteMessage(proto.MessageErrorCommandNotFound)
		return
	}
	f(w, msg)
}

func (mm *MapMux) Handle(s string, f HandleMessage) {
	mm.handlers[s] = f
}

const maxAcceptDelay = time.Second

type MessageServer struct {
	log     zerolog.Logger
	metrics MetricsStore

	wg sync.WaitGroup
}

func NewMessageServer(log zerolog.Logger, metrics MetricsStore) *MessageServer {
	return &MessageServer{
		log:     log,
		metrics: metrics,
	}
}

// ListenAndServe accepts connections on port until ctx is done.
func (ms *MessageServer) ListenAndServe(ctx context.Context, port int, mux MessageMux) error {
	sock, err := net.ListenTCP("tcp4", &net.TCPAddr{Port: port})
	if err != nil {
		return errors.Wrapf(err, "unable to listen on port %d", port)
	}
	ms.log.Info().Int("port", port).Msg("listening for client connections")

	return ms.Serve(ctx, sock, mux)
}

// Serve accepts connections on sock, one goroutine per connection, until ctx
// is done. Open connections are closed on the way out.
func (ms *MessageServer) Serve(ctx context.Context, sock net.Listener, mux MessageMux) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		sock.Close()
	}()

	var delay time.Duration
	for {
		conn, err := sock.Accept()
		if err != nil {
			if ctx.Err() != nil {
				ms.wg.Wait()
				return nil
			}

			// Back off on repeated failures such as running out of file
			// descriptors.
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			ms.log.Error().Err(err).Dur("retry", delay).Msg("unable to accept connection")

			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
			continue
		}
		delay = 0

		if ms.metrics != nil {
			ms.metrics.IncClientConnection()
		}

		ms.wg.Add(1)
		c := newConn(ms.log, mux)
		go func() {
			defer ms.wg.Done()
			c.Handle(ctx, conn)
		}()
	}
}

type conn struct {
	log zerolog.Logger
	c   net.Conn

	mux MessageMux
}

func newConn(log zerolog.Logger, mux MessageMux) *conn {
	return &conn{
		log: log.With().Str("conn", uuid.NewString()).Logger(),
		mux: mux,
	}
}

// Handle serves messages from c one at a time until the peer hangs up or
// ctx is done.
func (c *conn) Handle(ctx context.Context, nc net.Conn) {
	c.c = nc
	defer c.c.Close()

	stop := context.AfterFunc(ctx, func() {
		c.c.Close()
	})
	defer stop()

	c.log.Debug().Str("remote", nc.RemoteAddr().String()).Msg("client connected")

	r := bufio.NewReader(c.c)
	w := bufio.NewWriter(c.c)
	for {
		msg, err := proto.ReadMessage(r)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				c.log.Debug().Msg("client disconnected")
				return
			}
			c.log.Error().Err(err).Msg("error parsing message from connection")
			proto.NewResponseWriter(w).WriteMessage(proto.MessageErrorMalformed)
			w.Flush()
			return
		}
		c.log.Trace().Object("msg", msg).Msg("parsed message")

		c.mux.ServeMessage(w, msg)
		if err := w.Flush(); err != nil {
			c.log.Error().Err(err).Msg("unable to write response")
			return
		}
	}
}
