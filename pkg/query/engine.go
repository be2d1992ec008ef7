/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package query turns free-form text into a date or date range and runs it
// against a dataset.
//
// The pipeline is normalize, classify (Matcher), resolve (Resolver) and then
// look up and aggregate rows (Statement.Execute).
package query

import (
	"github.com/dburkart/tally/pkg/dataset"
	"github.com/dburkart/tally/pkg/normalize"
)

// Engine owns a loaded dataset and the tables needed to query it. Nothing in
// an Engine changes after construction, so one Engine serves every
// connection.
type Engine struct {
	dataset  *dataset.Dataset
	matcher  *Matcher
	resolver *Resolver
}

func NewEngine(ds *dataset.Dataset, matcher *Matcher, resolver *Resolver) *Engine {
	return &Engine{
		dataset:  ds,
		matcher:  matcher,
		resolver: resolver,
	}
}

func (e *Engine) Dataset() *dataset.Dataset {
	return e.dataset
}

// Statement is a resolved query, ready to run.
type Statement struct {
	Expression Expression
	Resolved   Resolved

	dataset *dataset.Dataset
}

// Result holds the rows a statement matched. Totals is only filled in for
// range statements.
type Result struct {
	Expression Expression
	Resolved   Resolved
	Rows       dataset.Rows
	Totals     dataset.Totals
}

func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// Prepare normalizes, classifies and resolves text.
func (e *Engine) Prepare(text string) (*Statement, error) {
	expr, err := e.matcher.Classify(normalize.Normalize(text))
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolver.Resolve(expr)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Expression: expr,
		Resolved:   resolved,
		dataset:    e.dataset,
	}, nil
}

func (s *Statement) Execute() Result {
	result := Result{
		Expression: s.Expression,
		Resolved:   s.Resolved,
	}

	if s.Resolved.Single {
		result.Rows = s.dataset.FindByDate(s.Resolved.Start)
		return result
	}

	result.Rows = s.dataset.FindByRange(s.Resolved.Start, s.Resolved.End)
	result.Totals = dataset.Aggregate(result.Rows, s.dataset.Schema().Measures)
	return result
}

// Query prepares and executes text in one step.
func (e *Engine) Query(text string) (Result, error) {
	stmt, err := e.Prepare(text)
	if err != nil {
		return Result{}, err
	}
	return stmt.Execute(), nil
}
