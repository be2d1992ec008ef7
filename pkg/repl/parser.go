/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"strings"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/pkg/errors"
)

// ErrEmpty is returned for blank input lines.
var ErrEmpty = errors.New("empty input")

// ParseREPLCommand parses input from the command line. Lines starting with a
// known command word become that command; anything else is a question.
//
// This function assumes there is no '\n'
func ParseREPLCommand(b []byte) (proto.Message, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, ErrEmpty
	}

	// all commands have a space after them, if not then they are command only
	// like HELP
	cmd := b
	var data []byte
	if ind := bytes.IndexByte(b, ' '); ind != -1 {
		cmd = b[0:ind]
		data = bytes.TrimSpace(b[ind+1:])
	}

	// Marshal message based on the command
	switch strings.ToUpper(string(cmd)) {
	case proto.CommandHelp, "/START":
		return proto.NewMessageWithType(proto.CommandHelp, proto.HelpRequest{}), nil
	case proto.CommandStats:
		return proto.NewMessageWithType(proto.CommandStats, proto.StatsRequest{}), nil
	case proto.CommandVersion:
		return proto.NewMessageWithType(proto.CommandVersion, proto.VersionRequest{Version: proto.Version}), nil
	case proto.CommandQuery:
		if len(data) == 0 {
			return nil, errors.New("query needs a question, try: query carnaval 2024")
		}
		return proto.NewMessageWithType(proto.CommandQuery, proto.QueryRequest{Query: string(data)}), nil
	}

	return proto.NewMessageWithType(proto.CommandQuery, proto.QueryRequest{Query: string(b)}), nil
}
