/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tally

import (
	"fmt"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/reply"
)

type Client interface {
	Open(proto.ConnectionString, uint) error
	Close() error
	Send(proto.Message) (proto.Message, error)
	Ask(string) (reply.Reply, error)
	Help() (reply.Reply, error)
	Stats() (proto.StatsResponse, error)
}

// NewClient creates a new Client which can be used to ask questions of a
// remote tally server, or of a dataset loaded in process. The client is
// thread safe, but only holds one connection at a time. For a client pool,
// use NewClientPool instead.
func NewClient(connstr string, opts Options) (Client, error) {
	client, err := NewClientPool(connstr, 1, opts)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// NewClientPool creates a new Client which holds a pool of net.Conn
// resources open to a remote tally server. Local clients ignore size.
func NewClientPool(connstr string, size uint, opts Options) (Client, error) {
	var client Client
	var err error

	target, err := proto.ParseConnectionString(connstr)
	if err != nil {
		return nil, err
	}

	if target.Local {
		client = &LocalClient{options: opts}
	} else {
		client = &RemoteClient{}
	}

	err = client.Open(target, size)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// unmarshalReply turns a QUERY or HELP response into a reply, and an ERR
// response into an error.
func unmarshalReply(msg proto.Message) (reply.Reply, error) {
	if msg.Command() == proto.CommandError {
		return reply.Reply{}, unmarshalError(msg)
	}

	resp := proto.QueryResponse{}
	if err := proto.Unmarshal(msg.Data(), &resp); err != nil {
		return reply.Reply{}, err
	}
	return resp.Reply, nil
}

func unmarshalStats(msg proto.Message) (proto.StatsResponse, error) {
	if msg.Command() == proto.CommandError {
		return proto.StatsResponse{}, unmarshalError(msg)
	}

	resp := proto.StatsResponse{}
	if err := proto.Unmarshal(msg.Data(), &resp); err != nil {
		return proto.StatsResponse{}, err
	}
	return resp, nil
}

func unmarshalError(msg proto.Message) error {
	resp := proto.ErrResponse{}
	if err := proto.Unmarshal(msg.Data(), &resp); err != nil {
		return err
	}
	return &ServerError{Code: resp.Code, Message: resp.Err.Error()}
}

// ServerError is an ERR response from the server.
type ServerError struct {
	Code    uint32
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}
