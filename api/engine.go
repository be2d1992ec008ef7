/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tally

import (
	"context"
	"time"

	"github.com/dburkart/tally/pkg/dataset"
	"github.com/dburkart/tally/pkg/holiday"
	"github.com/dburkart/tally/pkg/query"
	"github.com/rs/zerolog"
)

// Options control how a dataset is loaded and queried in process.
type Options struct {
	// Sheet, Table and Credentials fill in the parts of the source that the
	// source string does not carry.
	Sheet       string
	Table       string
	Credentials string

	Schema dataset.Schema
	Policy query.RangePolicy
	Logger zerolog.Logger
	// Now supplies the year for queries that do not name one.
	Now func() time.Time
}

// DefaultOptions loads datasets with the default schema and rejects
// reversed ranges.
func DefaultOptions() Options {
	return Options{
		Schema: dataset.DefaultSchema(),
		Policy: query.RejectReversed,
		Logger: zerolog.Nop(),
		Now:    time.Now,
	}
}

// OpenEngine loads the dataset named by source and builds an engine over it.
func OpenEngine(ctx context.Context, source string, opts Options) (*query.Engine, error) {
	src, err := dataset.ParseSource(source)
	if err != nil {
		return nil, err
	}
	if opts.Sheet != "" {
		src.Sheet = opts.Sheet
	}
	if opts.Table != "" {
		src.Table = opts.Table
	}
	if opts.Credentials != "" {
		src.Credentials = opts.Credentials
	}

	schema := opts.Schema
	if schema.DateColumn == "" {
		schema = dataset.DefaultSchema()
	}

	ds, err := dataset.Load(ctx, src, schema, opts.Logger)
	if err != nil {
		return nil, err
	}

	return NewEngine(ds, opts), nil
}

// NewEngine builds an engine over an already loaded dataset.
func NewEngine(ds *dataset.Dataset, opts Options) *query.Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return query.NewEngine(
		ds,
		query.NewMatcher(query.Months, query.Keywords, now),
		query.NewResolver(holiday.Brazil(), query.Windows, opts.Policy),
	)
}
