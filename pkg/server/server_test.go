/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dburkart/tally/pkg/dataset"
	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/query"
	"github.com/dburkart/tally/pkg/reply"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testEngine() *query.Engine {
	var rows dataset.Rows
	for d := 1; d <= 31; d++ {
		date := time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
		n := int64(d)
		rows = append(rows, dataset.Row{
			Date:     date,
			Cells:    []string{date.Format("2006-01-02"), decimal.NewFromInt(100 * n).StringFixed(2), decimal.NewFromInt(n).String()},
			Measures: []decimal.Decimal{decimal.NewFromInt(100 * n), decimal.NewFromInt(n)},
		})
	}

	ds := dataset.New(dataset.DefaultSchema(), []string{"Dia", "Receitas Totais Líquidas", "Pessoas Atendidas"}, rows)
	clock := func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return query.NewEngine(ds, query.NewMatcher(query.Months, query.Keywords, clock), query.DefaultResolver())
}

// startServer serves the engine on an ephemeral port until the test ends.
func startServer(t *testing.T) (*Server, net.Conn) {
	t.Helper()

	srv := New(zerolog.Nop(), testEngine(), "test.xlsx", 0, 0)

	sock, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewMessageServer(zerolog.Nop(), srv.Metrics()).Serve(ctx, sock, srv.Mux())
	}()

	conn, err := net.Dial("tcp4", sock.Addr().String())
	if err != nil {
		cancel()
		t.Fatal(err)
	}

	t.Cleanup(func() {
		conn.Close()
		cancel()
		if err := <-done; err != nil {
			t.Error(err)
		}
	})

	return srv, conn
}

func roundTrip(t *testing.T, conn net.Conn, r *bufio.Reader, msg proto.Message) proto.Message {
	t.Helper()

	if _, err := proto.NewResponseWriter(conn).WriteMessage(msg); err != nil {
		t.Fatal(err)
	}
	resp, err := proto.ReadMessage(r)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestServeConversation(t *testing.T) {
	srv, conn := startServer(t)
	r := bufio.NewReader(conn)

	resp := roundTrip(t, conn, r, proto.NewMessageWithType(proto.CommandVersion, proto.VersionRequest{Version: proto.Version}))
	version := proto.VersionResponse{}
	if err := version.Unmarshal(resp.Data()); err != nil {
		t.Fatal(err)
	}
	if version.Code != 200 || version.Version != proto.Version {
		t.Errorf("unexpected version response %+v", version)
	}

	resp = roundTrip(t, conn, r, proto.NewMessageWithType(proto.CommandQuery, proto.QueryRequest{Query: "de 01/01/2024 a 15/01/2024"}))
	if resp.Command() != proto.CommandQuery {
		t.Fatalf("expected a QUERY response, got %s", resp.Command())
	}
	answer := proto.QueryResponse{}
	if err := answer.Unmarshal(resp.Data()); err != nil {
		t.Fatal(err)
	}
	if answer.Reply.Kind != reply.KindSummary || answer.Reply.Summary[0].Value != "R$ 12,000.00" {
		t.Errorf("unexpected reply %+v", answer.Reply)
	}

	resp = roundTrip(t, conn, r, proto.NewMessageWithType(proto.CommandQuery, proto.QueryRequest{Query: "xyz"}))
	answer = proto.QueryResponse{}
	if err := answer.Unmarshal(resp.Data()); err != nil {
		t.Fatal(err)
	}
	if answer.Reply.Kind != reply.KindError || !strings.Contains(answer.Reply.Title, "DD/MM/YYYY") {
		t.Errorf("expected a usage reply, got %+v", answer.Reply)
	}

	resp = roundTrip(t, conn, r, proto.NewMessageWithType(proto.CommandHelp, proto.HelpRequest{}))
	help := proto.QueryResponse{}
	if err := help.Unmarshal(resp.Data()); err != nil {
		t.Fatal(err)
	}
	if help.Reply.Kind != reply.KindHelp {
		t.Errorf("expected the welcome text, got %+v", help.Reply)
	}

	resp = roundTrip(t, conn, r, proto.NewMessageWithType(proto.CommandStats, proto.StatsRequest{}))
	stats := proto.StatsResponse{}
	if err := stats.Unmarshal(resp.Data()); err != nil {
		t.Fatal(err)
	}
	if stats.Rows != 31 || stats.First != "2024-01-01" || stats.Last != "2024-01-31" || stats.Source != "test.xlsx" {
		t.Errorf("unexpected stats %+v", stats)
	}

	resp = roundTrip(t, conn, r, proto.NewMessage("APPEND", []byte("x")))
	if resp.Command() != proto.CommandError {
		t.Errorf("expected an error for an unknown command, got %s", resp.Command())
	}

	ms := srv.Metrics().(*metricsStore)
	if got := testutil.ToFloat64(ms.Queries.WithLabelValues(query.KindRange, OutcomeOk)); got != 1 {
		t.Errorf("expected one answered range query, got %v", got)
	}
	if got := testutil.ToFloat64(ms.Queries.WithLabelValues(KindNone, OutcomeUnrecognized)); got != 1 {
		t.Errorf("expected one unrecognized query, got %v", got)
	}
	if got := testutil.ToFloat64(ms.Requests.WithLabelValues(proto.CommandQuery)); got != 2 {
		t.Errorf("expected two QUERY requests, got %v", got)
	}
}

func TestServeMalformedMessage(t *testing.T) {
	_, conn := startServer(t)

	if _, err := conn.Write([]byte("garbage\n")); err != nil {
		t.Fatal(err)
	}

	resp, err := proto.ReadMessage(bufio.NewReader(conn))
	if err != nil {
		t.Fatal(err)
	}
	errResp := proto.ErrResponse{}
	if err := errResp.Unmarshal(resp.Data()); err != nil {
		t.Fatal(err)
	}
	if resp.Command() != proto.CommandError || errResp.Code != 400 {
		t.Errorf("expected a 400 error, got %s %d", resp.Command(), errResp.Code)
	}
}

func TestQueryResponseOutcomes(t *testing.T) {
	e := testEngine()

	tt := []struct {
		query   string
		kind    string
		outcome string
	}{
		{"05/01/2024", query.KindDate, OutcomeOk},
		{"25/12/2023", query.KindDate, OutcomeEmpty},
		{"janeiro 2024", query.KindMonth, OutcomeOk},
		{"semana do carnaval 2024", query.KindEvent, OutcomeEmpty},
		{"xyz", KindNone, OutcomeUnrecognized},
		{"31/02/2024", KindNone, OutcomeInvalidDate},
		{"de 15/01/2024 a 01/01/2024", KindNone, OutcomeReversedRange},
		{"consciência negra 2023", KindNone, OutcomeHolidayNotFound},
	}

	for _, tc := range tt {
		msg, outcome := QueryResponse(proto.QueryRequest{Query: tc.query}, e)
		if msg.Command() != proto.CommandQuery {
			t.Errorf("%s: expected a QUERY message, got %s", tc.query, msg.Command())
		}
		if outcome.Kind != tc.kind || outcome.Result != tc.outcome {
			t.Errorf("%s: expected %s/%s, got %s/%s", tc.query, tc.kind, tc.outcome, outcome.Kind, outcome.Result)
		}
	}
}

func TestHandlerPanic(t *testing.T) {
	srv := New(zerolog.Nop(), testEngine(), "test.xlsx", 0, 0)

	handler := srv.instrument(func(w io.Writer, msg proto.Message, _ zerolog.Logger) {
		panic("boom")
	})

	buf := new(bytes.Buffer)
	handler(buf, proto.NewMessage(proto.CommandQuery, []byte("natal 2023")))

	resp, err := proto.ReadMessage(bufio.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	errResp := proto.ErrResponse{}
	if err := errResp.Unmarshal(resp.Data()); err != nil {
		t.Fatal(err)
	}
	if resp.Command() != proto.CommandError || errResp.Code != 500 {
		t.Errorf("expected a 500 error, got %s %d", resp.Command(), errResp.Code)
	}

	ms := srv.Metrics().(*metricsStore)
	if got := testutil.ToFloat64(ms.Requests.WithLabelValues(proto.CommandQuery)); got != 1 {
		t.Errorf("expected the failed request to be counted, got %v", got)
	}
}
