/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tally

import (
	"context"
	"time"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/query"
	"github.com/dburkart/tally/pkg/reply"
	"github.com/dburkart/tally/pkg/server"
	"github.com/pkg/errors"
)

// A LocalClient answers questions from a dataset loaded in process.
type LocalClient struct {
	target  proto.ConnectionString
	options Options
	engine  *query.Engine
	opened  time.Time
}

// NewLocalClient wraps an engine that is already built.
func NewLocalClient(engine *query.Engine, source string) *LocalClient {
	return &LocalClient{
		target: proto.ConnectionString{Local: true, Address: "local", Source: source},
		engine: engine,
		opened: time.Now(),
	}
}

func (client *LocalClient) Open(target proto.ConnectionString, _ uint) error {
	client.target = target

	engine, err := OpenEngine(context.Background(), target.Source, client.options)
	if err != nil {
		return errors.Wrapf(err, "unable to load dataset %s", target.Source)
	}
	client.engine = engine
	client.opened = time.Now()

	return nil
}

func (client *LocalClient) Close() error {
	return nil
}

func (client *LocalClient) Send(message proto.Message) (proto.Message, error) {
	switch message.Command() {
	case proto.CommandVersion:
		var versionReq proto.VersionRequest
		err := proto.Unmarshal(message.Data(), &versionReq)
		if err != nil {
			return proto.MessageErrorUnmarshaling, nil
		}
		return server.VersionResponse(versionReq), nil
	case proto.CommandQuery:
		var queryReq proto.QueryRequest
		err := proto.Unmarshal(message.Data(), &queryReq)
		if err != nil {
			return proto.MessageErrorUnmarshaling, nil
		}
		resp, _ := server.QueryResponse(queryReq, client.engine)
		return resp, nil
	case proto.CommandHelp:
		return server.HelpResponse(proto.HelpRequest{}), nil
	case proto.CommandStats:
		return server.StatsResponse(proto.StatsRequest{}, client.engine.Dataset(), client.target.Source, time.Since(client.opened)), nil
	default:
		return proto.MessageErrorCommandNotFound, nil
	}
}

func (client *LocalClient) Ask(q string) (reply.Reply, error) {
	resp, err := client.Send(proto.NewMessageWithType(proto.CommandQuery, proto.QueryRequest{Query: q}))
	if err != nil {
		return reply.Reply{}, err
	}
	return unmarshalReply(resp)
}

func (client *LocalClient) Help() (reply.Reply, error) {
	resp, err := client.Send(proto.NewMessageWithType(proto.CommandHelp, proto.HelpRequest{}))
	if err != nil {
		return reply.Reply{}, err
	}
	return unmarshalReply(resp)
}

func (client *LocalClient) Stats() (proto.StatsResponse, error) {
	resp, err := client.Send(proto.NewMessageWithType(proto.CommandStats, proto.StatsRequest{}))
	if err != nil {
		return proto.StatsResponse{}, err
	}
	return unmarshalStats(resp)
}
