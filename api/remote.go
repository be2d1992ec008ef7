/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tally

import (
	"bufio"
	"io"
	"math"
	"net"
	"syscall"
	"time"

	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/reply"
	"github.com/pkg/errors"
)

// A RemoteClient holds the data needed to talk to a tally server.
type RemoteClient struct {
	target proto.ConnectionString
	conn   chan *remoteConn
}

type remoteConn struct {
	net.Conn
	r *bufio.Reader
}

func dial(address string) (*remoteConn, error) {
	c, err := net.Dial("tcp4", address)
	if err != nil {
		return nil, err
	}

	rc := &remoteConn{Conn: c, r: bufio.NewReader(c)}
	if err := handshake(rc); err != nil {
		c.Close()
		return nil, err
	}
	return rc, nil
}

// handshake sends our version advertisement and checks the server accepted
// it.
func handshake(c *remoteConn) error {
	versionMsg := proto.NewMessageWithType(proto.CommandVersion, proto.VersionRequest{Version: proto.Version})
	if _, err := proto.NewResponseWriter(c).WriteMessage(versionMsg); err != nil {
		return errors.Wrap(err, "unable to send version")
	}

	m, err := proto.ReadMessage(c.r)
	if err != nil {
		return errors.Wrap(err, "unable to parse server version response")
	}
	version := proto.VersionResponse{}
	err = version.Unmarshal(m.Data())
	if err != nil {
		return errors.Wrap(err, "unable to unmarshal version response")
	}
	if version.Code != 200 {
		return errors.New("server rejected client version")
	}

	return nil
}

func (client *RemoteClient) reconnectWithBackoff() (*remoteConn, error) {
	var conn *remoteConn
	var err error

	// Try for a total of 7 seconds
	for i := 0; i < 3; i++ {
		delay := time.Duration(math.Exp2(float64(i)))
		time.Sleep(delay * time.Second)

		conn, err = dial(client.target.Address)
		if err == nil {
			break
		}
	}

	return conn, err
}

func (client *RemoteClient) Open(connectionString proto.ConnectionString, size uint) error {
	client.target = connectionString
	client.conn = make(chan *remoteConn, size)

	for i := uint(0); i < size; i++ {
		c, err := dial(client.target.Address)
		if err != nil {
			client.Close()
			return errors.Wrapf(err, "unable to connect to %s", client.target.Address)
		}
		client.conn <- c
	}

	return nil
}

func (client *RemoteClient) Close() error {
	if client.conn == nil {
		return nil
	}

	var firstErr error
	for n := len(client.conn); n > 0; n-- {
		conn := <-client.conn
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	client.conn = nil
	return firstErr
}

// Send a general message to the tally server.
func (client *RemoteClient) Send(m proto.Message) (proto.Message, error) {
	data, err := m.Marshal()
	if err != nil {
		return nil, err
	}

	conn := <-client.conn
	defer func() {
		client.conn <- conn
	}()

	for attempt := 0; ; attempt++ {
		resp, err := exchange(conn, data)
		if err == nil {
			return resp, nil
		}
		if attempt > 0 || !peerGone(err) {
			return nil, err
		}

		// The server went away; reconnect once and resend. The new connection
		// replaces the dead one in the pool.
		fresh, rerr := client.reconnectWithBackoff()
		if rerr != nil {
			return nil, errors.Wrap(rerr, "unable to reconnect")
		}
		conn.Close()
		conn = fresh
	}
}

func exchange(conn *remoteConn, data []byte) (proto.Message, error) {
	if _, err := conn.Write(data); err != nil {
		return nil, err
	}
	return proto.ReadMessage(conn.r)
}

func peerGone(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

// Ask the server a question.
func (client *RemoteClient) Ask(q string) (reply.Reply, error) {
	resp, err := client.Send(proto.NewMessageWithType(proto.CommandQuery, proto.QueryRequest{Query: q}))
	if err != nil {
		return reply.Reply{}, err
	}
	return unmarshalReply(resp)
}

func (client *RemoteClient) Help() (reply.Reply, error) {
	resp, err := client.Send(proto.NewMessageWithType(proto.CommandHelp, proto.HelpRequest{}))
	if err != nil {
		return reply.Reply{}, err
	}
	return unmarshalReply(resp)
}

func (client *RemoteClient) Stats() (proto.StatsResponse, error) {
	resp, err := client.Send(proto.NewMessageWithType(proto.CommandStats, proto.StatsRequest{}))
	if err != nil {
		return proto.StatsResponse{}, err
	}
	return unmarshalStats(resp)
}
