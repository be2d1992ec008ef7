/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"io"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/pkg/errors"
)

// A Sender delivers a message and returns the response.
type Sender interface {
	Send(proto.Message) (proto.Message, error)
}

// Session turns input lines into messages and prints the responses.
type Session struct {
	sender Sender
	writer OutputWriter
	out    io.Writer
}

func NewSession(sender Sender, out io.Writer, format string) *Session {
	return &Session{
		sender: sender,
		writer: NewOutputWriter(out, format),
		out:    out,
	}
}

// Handle runs one line. Errors are only returned when talking to the other
// side failed; bad input is reported to the user and is not an error.
func (s *Session) Handle(line string) error {
	msg, err := ParseREPLCommand([]byte(line))
	if errors.Is(err, ErrEmpty) {
		return nil
	}
	if err != nil {
		fmt.Fprintln(s.out, err)
		return nil
	}

	resp, err := s.sender.Send(msg)
	if err != nil {
		return errors.Wrap(err, "error sending message")
	}

	if err := s.print(resp); err != nil {
		return err
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Session) print(msg proto.Message) error {
	switch msg.Command() {
	case proto.CommandVersion:
		v := proto.VersionResponse{}
		if err := v.Unmarshal(msg.Data()); err != nil {
			return err
		}
		return s.writer.Write(v)
	case proto.CommandStats:
		t := proto.StatsResponse{}
		if err := t.Unmarshal(msg.Data()); err != nil {
			return err
		}
		return s.writer.Write(t)
	case proto.CommandQuery, proto.CommandHelp:
		t := proto.QueryResponse{}
		if err := t.Unmarshal(msg.Data()); err != nil {
			return err
		}
		return s.writer.Write(t.Reply)
	case proto.CommandError:
		t := proto.ErrResponse{}
		if err := t.Unmarshal(msg.Data()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(s.out, t.Code, t.Err)
		return err
	}

	return errors.Errorf("unexpected response %s", msg.Command())
}
