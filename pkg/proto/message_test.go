/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package proto

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dburkart/tally/pkg/reply"
)

var result Message

func TestParseMessage(t *testing.T) {
	tt := []struct {
		test    string
		buf     []byte
		err     bool
		command string
		data    string
	}{
		{"Test empty message", []byte("\r\n"), true, "", ""},
		{"Test missing length", []byte("HELP\n"), true, "", ""},
		{"Test bad length", []byte("HELP x\n"), true, "", ""},
		{"Test negative length", []byte("HELP -1\n"), true, "", ""},
		{"Test short body", []byte("QUERY 10\nabc"), true, "", ""},
		{"Test oversized body", []byte("QUERY 99999999999\n"), true, "", ""},
		{"Test empty body", []byte("HELP 0\n"), false, CommandHelp, ""},
		{"Test simple message", []byte("QUERY 13\ncarnaval 2024"), false, CommandQuery, "carnaval 2024"},
		{"Test lower case command", []byte("query 5\nnatal"), false, CommandQuery, "natal"},
		{"Test CRLF header", []byte("QUERY 5\r\nnatal"), false, CommandQuery, "natal"},
		{"Test body with newlines", []byte("QUERY 3\na\nb"), false, CommandQuery, "a\nb"},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			msg, err := ParseMessage(tc.buf)
			if tc.err {
				if err == nil {
					t.Errorf("expected an error, got %s", msg.Command())
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if msg.Command() != tc.command {
				t.Errorf("expected command %s, got %s", tc.command, msg.Command())
			}
			if string(msg.Data()) != tc.data {
				t.Errorf("expected data %q, got %q", tc.data, msg.Data())
			}
		})
	}
}

func TestReadMessageStream(t *testing.T) {
	buf := new(bytes.Buffer)
	rw := NewResponseWriter(buf)

	sent := []Message{
		NewMessageWithType(CommandVersion, VersionRequest{Version: Version}),
		NewMessageWithType(CommandQuery, QueryRequest{Query: "de 01/01/2024 a 15/01/2024"}),
		NewMessageWithType(CommandHelp, HelpRequest{}),
		MessageError,
	}
	for _, m := range sent {
		if _, err := rw.WriteMessage(m); err != nil {
			t.Fatal(err)
		}
	}

	r := bufio.NewReader(buf)
	for _, want := range sent {
		got, err := ReadMessage(r)
		if err != nil {
			t.Fatal(err)
		}
		if got.Command() != want.Command() || !bytes.Equal(got.Data(), want.Data()) {
			t.Errorf("expected %s %q, got %s %q", want.Command(), want.Data(), got.Command(), got.Data())
		}
	}

	if _, err := ReadMessage(r); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF after the last message, got %v", err)
	}
}

func BenchmarkReadMessage(b *testing.B) {
	frame, _ := MessageErrorCommandNotFound.Marshal()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ret, _ := ReadMessage(bufio.NewReader(bytes.NewReader(frame)))
		result = ret
	}
}

func TestErrResponse(t *testing.T) {
	req := ErrResponse{Code: 404, Err: errors.New("command not found")}

	b, _ := req.Marshal()
	req = ErrResponse{}
	err := req.Unmarshal(b)
	if err != nil {
		t.Fatal(err)
	}

	if req.Code != 404 {
		t.Errorf("expected code 404, got %d", req.Code)
	}
	if req.Err.Error() != "command not found" {
		t.Errorf("unexpected error %q", req.Err)
	}

	if err := req.Unmarshal([]byte("abc nope")); err == nil {
		t.Error("expected an error for a non numeric code")
	}

	b, _ = ErrResponse{Code: 500}.Marshal()
	if string(b) != "500 error" {
		t.Errorf("unexpected default error body %q", b)
	}
}

func TestVersionResponse(t *testing.T) {
	b, _ := VersionResponse{Code: 200, Version: Version}.Marshal()

	resp := VersionResponse{}
	if err := resp.Unmarshal(b); err != nil {
		t.Fatal(err)
	}
	if resp.Code != 200 || resp.Version != Version {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestQueryResponse(t *testing.T) {
	sent := QueryResponse{Reply: reply.Reply{
		Kind:    reply.KindSummary,
		Title:   "Summary for Month of February 2024:",
		Summary: []reply.Line{{Label: "Total revenue", Value: "R$ 1,234.56"}},
		Columns: []string{"Dia", "Receitas Totais Líquidas"},
		Rows:    [][]string{{"2024-02-01", "1234.56"}},
	}}

	msg := NewMessageWithType(CommandQuery, sent)
	if msg.Command() != CommandQuery {
		t.Fatalf("expected a QUERY message, got %s", msg.Command())
	}

	got := QueryResponse{}
	if err := Unmarshal(msg.Data(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Reply.Title != sent.Reply.Title || got.Reply.Summary[0] != sent.Reply.Summary[0] {
		t.Errorf("reply changed on the wire: %+v", got.Reply)
	}
	if got.Headers()[1] != "Receitas Totais Líquidas" || got.Values()[0][1] != "1234.56" {
		t.Errorf("unexpected table %v %v", got.Headers(), got.Values())
	}

	if err := got.Unmarshal([]byte("{")); err == nil {
		t.Error("expected an error for a truncated reply")
	}
}

func TestStatsResponse(t *testing.T) {
	sent := StatsResponse{Source: "faturamento.xlsx", Rows: 730, First: "2023-01-01", Last: "2024-12-31", Uptime: 90 * time.Second}

	b, _ := sent.Marshal()
	got := StatsResponse{}
	if err := got.Unmarshal(b); err != nil {
		t.Fatal(err)
	}
	if got != sent {
		t.Errorf("expected %+v, got %+v", sent, got)
	}

	values := got.Values()
	if len(values) != 1 || strings.Join(values[0], ",") != "faturamento.xlsx,730,2023-01-01,2024-12-31,1m30s" {
		t.Errorf("unexpected values %v", values)
	}
}

func TestMarshalOversized(t *testing.T) {
	msg := NewMessage(CommandQuery, make([]byte, MaxPayload+1))
	if _, err := msg.Marshal(); err == nil {
		t.Error("expected oversized payloads to be rejected")
	}
}
