/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package proto

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dburkart/tally/pkg/reply"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MaxPayload bounds the size of a single message body.
const MaxPayload = 16 << 20

var (
	MessageErrorMalformed       = NewMessageWithType(CommandError, ErrResponse{Code: 400, Err: errors.New("malformed message")})
	MessageErrorCommandNotFound = NewMessageWithType(CommandError, ErrResponse{Code: 404, Err: errors.New("command not found")})
	MessageError                = NewMessageWithType(CommandError, ErrResponse{Code: 500, Err: errors.New("error")})
	MessageErrorUnmarshaling    = NewMessageWithType(CommandError, ErrResponse{Code: 506, Err: errors.New("unable to unmarshal request")})
)

// A Message is a single frame on the wire:
//
//	COMMAND <length>\n<payload>
type Message interface {
	Command() string
	Data() []byte
	Marshal() ([]byte, error)
	MarshalZerologObject(e *zerolog.Event)
}

type message struct {
	command string
	data    []byte
}

func NewMessage(command string, data []byte) Message {
	return message{
		command: strings.ToUpper(command),
		data:    data,
	}
}

// NewMessageWithType marshals t into the body of a new message. Should t fail
// to marshal, an error message is returned in its place.
func NewMessageWithType(command string, t Marshaler) Message {
	data, err := t.Marshal()
	if err != nil {
		b, _ := ErrResponse{Code: 506, Err: err}.Marshal()
		return NewMessage(CommandError, b)
	}
	return NewMessage(command, data)
}

func (m message) Command() string {
	return m.command
}

func (m message) Data() []byte {
	return m.data
}

func (m message) Marshal() ([]byte, error) {
	if len(m.data) > MaxPayload {
		return nil, errors.Errorf("payload of %d bytes exceeds %d", len(m.data), MaxPayload)
	}

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%s %d\n", m.command, len(m.data))
	buf.Write(m.data)
	return buf.Bytes(), nil
}

func (m message) MarshalZerologObject(e *zerolog.Event) {
	e.Str("command", m.command).Int("length", len(m.data))
}

// ReadMessage reads exactly one message from r.
func ReadMessage(r *bufio.Reader) (Message, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}

	command, length, err := parseHeader(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return nil, err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Wrap(err, "short message body")
	}

	return NewMessage(command, data), nil
}

// ParseMessage parses a single complete message from b.
func ParseMessage(b []byte) (Message, error) {
	return ReadMessage(bufio.NewReader(bytes.NewReader(b)))
}

func parseHeader(line string) (string, int, error) {
	command, size, ok := strings.Cut(line, " ")
	if !ok || command == "" {
		return "", 0, errors.Errorf("malformed message header %q", line)
	}

	length, err := strconv.Atoi(size)
	if err != nil || length < 0 {
		return "", 0, errors.Errorf("malformed message length %q", size)
	}
	if length > MaxPayload {
		return "", 0, errors.Errorf("payload of %d bytes exceeds %d", length, MaxPayload)
	}

	return command, length, nil
}

func Unmarshal(b []byte, t Unmarshaler) error {
	return t.Unmarshal(b)
}

type Marshaler interface {
	Marshal() ([]byte, error)
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Printable responses can be displayed by the client as a table, csv or json.
type Printable interface {
	Headers() []string
	Values() [][]string
}

type (
	ErrResponse struct {
		Code uint32
		Err  error
	}

	VersionRequest struct {
		Version string
	}

	VersionResponse struct {
		Code    uint32
		Version string
	}

	QueryRequest struct {
		Query string
	}

	// QueryResponse carries the reply to a QUERY or a HELP request.
	QueryResponse struct {
		Reply reply.Reply
	}

	HelpRequest struct{}

	StatsRequest struct{}

	StatsResponse struct {
		Source string        `json:"source"`
		Rows   int           `json:"rows"`
		First  string        `json:"first"`
		Last   string        `json:"last"`
		Uptime time.Duration `json:"uptime"`
	}
)

func marshalCode(code uint32, text string) []byte {
	return []byte(fmt.Sprintf("%d %s", code, text))
}

func unmarshalCode(b []byte) (uint32, string, error) {
	code, text, _ := strings.Cut(string(b), " ")
	c, err := strconv.ParseUint(code, 10, 32)
	if err != nil {
		return 0, "", errors.Wrapf(err, "invalid response code %q", code)
	}
	return uint32(c), text, nil
}

// ErrResponse
// --------------------------

func (rs ErrResponse) Marshal() ([]byte, error) {
	msg := "error"
	if rs.Err != nil {
		msg = rs.Err.Error()
	}
	return marshalCode(rs.Code, msg), nil
}

func (rs *ErrResponse) Unmarshal(b []byte) error {
	code, text, err := unmarshalCode(b)
	if err != nil {
		return err
	}
	rs.Code = code
	rs.Err = errors.New(text)
	return nil
}

// VersionRequest
// --------------------------

func (rq VersionRequest) Marshal() ([]byte, error) {
	return []byte(rq.Version), nil
}

func (rq *VersionRequest) Unmarshal(b []byte) error {
	rq.Version = string(b)
	return nil
}

// VersionResponse
// --------------------------

func (rs VersionResponse) Marshal() ([]byte, error) {
	return marshalCode(rs.Code, rs.Version), nil
}

func (rs *VersionResponse) Unmarshal(b []byte) error {
	code, text, err := unmarshalCode(b)
	if err != nil {
		return err
	}
	rs.Code = code
	rs.Version = text
	return nil
}

func (rs VersionResponse) Headers() []string {
	return []string{"code", "version"}
}

func (rs VersionResponse) Values() [][]string {
	return [][]string{{strconv.FormatUint(uint64(rs.Code), 10), rs.Version}}
}

// QueryRequest
// --------------------------

func (rq QueryRequest) Marshal() ([]byte, error) {
	return []byte(rq.Query), nil
}

func (rq *QueryRequest) Unmarshal(b []byte) error {
	rq.Query = string(b)
	return nil
}

// QueryResponse
// --------------------------

func (rs QueryResponse) Marshal() ([]byte, error) {
	return json.Marshal(rs.Reply)
}

func (rs *QueryResponse) Unmarshal(b []byte) error {
	return errors.Wrap(json.Unmarshal(b, &rs.Reply), "unable to decode reply")
}

func (rs QueryResponse) Headers() []string {
	return rs.Reply.Headers()
}

func (rs QueryResponse) Values() [][]string {
	return rs.Reply.Values()
}

// HelpRequest
// --------------------------

func (rq HelpRequest) Marshal() ([]byte, error) {
	return []byte{}, nil
}

func (rq *HelpRequest) Unmarshal([]byte) error {
	return nil
}

// StatsRequest
// --------------------------

func (rq StatsRequest) Marshal() ([]byte, error) {
	return []byte{}, nil
}

func (rq *StatsRequest) Unmarshal([]byte) error {
	return nil
}

// StatsResponse
// --------------------------

func (rs StatsResponse) Marshal() ([]byte, error) {
	return json.Marshal(rs)
}

func (rs *StatsResponse) Unmarshal(b []byte) error {
	return errors.Wrap(json.Unmarshal(b, rs), "unable to decode stats")
}

func (rs StatsResponse) Headers() []string {
	return []string{"source", "rows", "first", "last", "uptime"}
}

func (rs StatsResponse) Values() [][]string {
	return [][]string{{
		rs.Source,
		strconv.Itoa(rs.Rows),
		rs.First,
		rs.Last,
		rs.Uptime.Round(time.Second).String(),
	}}
}
