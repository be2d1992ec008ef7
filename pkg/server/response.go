/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"time"

	"github.com/dburkart/tally/pkg/dataset"
	"github.com/dburkart/tally/pkg/holiday"
	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/query"
	"github.com/dburkart/tally/pkg/reply"
	"github.com/pkg/errors"
)

const (
	OutcomeOk              = "ok"
	OutcomeEmpty           = "empty"
	OutcomeUnrecognized    = "unrecognized"
	OutcomeInvalidDate     = "invalid_date"
	OutcomeReversedRange   = "reversed_range"
	OutcomeHolidayNotFound = "holiday_not_found"
	OutcomeError           = "error"

	// KindNone labels queries that failed before they were classified.
	KindNone = "none"
)

// Outcome describes how a query went, for logs and metrics.
type Outcome struct {
	Kind   string
	Result string
	Err    error
}

func VersionResponse(_ proto.VersionRequest) proto.Message {
	// We don't currently reject any versions, so respond with our own version
	// announcement with an OK code.
	return proto.NewMessageWithType(proto.CommandVersion, proto.VersionResponse{Code: 200, Version: proto.Version})
}

func HelpResponse(_ proto.HelpRequest) proto.Message {
	return proto.NewMessageWithType(proto.CommandHelp, proto.QueryResponse{Reply: reply.Welcome()})
}

func StatsResponse(_ proto.StatsRequest, ds *dataset.Dataset, source string, uptime time.Duration) proto.Message {
	stats := ds.Stats()
	return proto.NewMessageWithType(proto.CommandStats, proto.StatsResponse{
		Source: source,
		Rows:   stats.Rows,
		First:  stats.First.Format("2006-01-02"),
		Last:   stats.Last.Format("2006-01-02"),
		Uptime: uptime,
	})
}

// QueryResponse answers a query. User errors are part of the reply, so the
// returned message is always a QUERY message.
func QueryResponse(q proto.QueryRequest, engine *query.Engine) (proto.Message, Outcome) {
	r, result, err := reply.Answer(engine, q.Query)
	msg := proto.NewMessageWithType(proto.CommandQuery, proto.QueryResponse{Reply: r})
	if err != nil {
		return msg, Outcome{Kind: KindNone, Result: classifyError(err), Err: err}
	}

	outcome := Outcome{Kind: result.Expression.Kind(), Result: OutcomeOk}
	if result.Empty() {
		outcome.Result = OutcomeEmpty
	}
	return msg, outcome
}

func classifyError(err error) string {
	var notFound *holiday.NotFoundError

	switch {
	case errors.Is(err, query.ErrUnrecognized):
		return OutcomeUnrecognized
	case errors.Is(err, query.ErrInvalidDate):
		return OutcomeInvalidDate
	case errors.Is(err, query.ErrReversedRange):
		return OutcomeReversedRange
	case errors.As(err, &notFound):
		return OutcomeHolidayNotFound
	}
	return OutcomeError
}
