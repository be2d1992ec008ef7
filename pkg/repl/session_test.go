/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/reply"
	"github.com/pkg/errors"
)

// echoSender answers every query with a reply titled after the question.
type echoSender struct {
	sent []proto.Message
	err  error
}

func (e *echoSender) Send(msg proto.Message) (proto.Message, error) {
	e.sent = append(e.sent, msg)
	if e.err != nil {
		return nil, e.err
	}

	switch msg.Command() {
	case proto.CommandQuery:
		r := reply.Reply{Kind: reply.KindEmpty, Title: "No data found for " + string(msg.Data()) + "."}
		return proto.NewMessageWithType(proto.CommandQuery, proto.QueryResponse{Reply: r}), nil
	case proto.CommandHelp:
		return proto.NewMessageWithType(proto.CommandHelp, proto.QueryResponse{Reply: reply.Welcome()}), nil
	case proto.CommandStats:
		return proto.NewMessageWithType(proto.CommandStats, proto.StatsResponse{Source: "x.csv", Rows: 3}), nil
	}
	return proto.MessageErrorCommandNotFound, nil
}

func TestSession(t *testing.T) {
	out := new(bytes.Buffer)
	sender := &echoSender{}
	s := NewSession(sender, out, "text")

	for _, line := range []string{"natal 2023", "", "help", "stats", "query"} {
		if err := s.Handle(line); err != nil {
			t.Fatalf("%q: %s", line, err)
		}
	}

	if len(sender.sent) != 3 {
		t.Errorf("expected blank and invalid lines not to be sent, sent %d messages", len(sender.sent))
	}

	text := out.String()
	for _, fragment := range []string{"No data found for natal 2023.", "You can send me:", "x.csv", "query needs a question"} {
		if !strings.Contains(text, fragment) {
			t.Errorf("expected %q in:\n%s", fragment, text)
		}
	}
}

func TestSessionSendError(t *testing.T) {
	s := NewSession(&echoSender{err: errors.New("connection reset")}, new(bytes.Buffer), "text")
	if err := s.Handle("natal 2023"); err == nil {
		t.Error("expected transport errors to be returned")
	}
}
