/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"testing"

	"github.com/dburkart/tally/pkg/proto"
)

func TestParseREPLCommand(t *testing.T) {
	tt := []struct {
		test    string
		input   string
		command string
		data    string
	}{
		{"help", "help", proto.CommandHelp, ""},
		{"help upper case", "HELP", proto.CommandHelp, ""},
		{"start", "/start", proto.CommandHelp, ""},
		{"stats", "stats", proto.CommandStats, ""},
		{"version", "version", proto.CommandVersion, proto.Version},
		{"query", "query carnaval 2024", proto.CommandQuery, "carnaval 2024"},
		{"free text", "semana do carnaval 2024", proto.CommandQuery, "semana do carnaval 2024"},
		{"free text date", "  25/12/2023  ", proto.CommandQuery, "25/12/2023"},
		{"free text range", "de 01/01/2024 a 15/01/2024", proto.CommandQuery, "de 01/01/2024 a 15/01/2024"},
		{"help is only a command on its own", "helpful 2024", proto.CommandQuery, "helpful 2024"},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			msg, err := ParseREPLCommand([]byte(tc.input))
			if err != nil {
				t.Fatal(err)
			}
			if msg.Command() != tc.command {
				t.Errorf("expected command %s, got %s", tc.command, msg.Command())
			}
			if !bytes.Equal(msg.Data(), []byte(tc.data)) {
				t.Errorf("expected data %q, got %q", tc.data, msg.Data())
			}
		})
	}

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseREPLCommand([]byte("   ")); err != ErrEmpty {
			t.Errorf("expected ErrEmpty, got %v", err)
		}
	})
	t.Run("query no query", func(t *testing.T) {
		if _, err := ParseREPLCommand([]byte("query")); err == nil {
			t.Error("expected an error for a query without text")
		}
	})
}
