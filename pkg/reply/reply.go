/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package reply turns query results and query errors into the messages sent
// back to users.
package reply

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dburkart/tally/pkg/dataset"
	"github.com/dburkart/tally/pkg/holiday"
	"github.com/dburkart/tally/pkg/query"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	KindRows    = "rows"
	KindSummary = "summary"
	KindEmpty   = "empty"
	KindError   = "error"
	KindHelp    = "help"
)

// A Line is one summary entry, such as a total for a measure.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Reply is a rendered answer. It travels over the wire as is and is turned
// into text (or csv, or json) by whoever displays it.
type Reply struct {
	Kind    string     `json:"kind"`
	Title   string     `json:"title"`
	Summary []Line     `json:"summary,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// Answer runs text against the engine and always produces a reply; errors
// become explanatory messages. The result and error are returned as well so
// callers can log and count them.
func Answer(engine *query.Engine, text string) (Reply, query.Result, error) {
	result, err := engine.Query(text)
	if err != nil {
		return FromError(err), result, err
	}

	ds := engine.Dataset()
	return FromResult(result, ds.Columns(), ds.Schema().Currency), result, nil
}

// FromResult builds the reply for a successful query.
func FromResult(result query.Result, columns []string, currency string) Reply {
	label := result.Resolved.Label

	if result.Resolved.Single {
		if result.Empty() {
			return Reply{Kind: KindEmpty, Title: fmt.Sprintf("No data found for %s.", label)}
		}
		return Reply{
			Kind:    KindRows,
			Title:   fmt.Sprintf("Data for %s:", label),
			Columns: columns,
			Rows:    cells(result.Rows),
		}
	}

	if result.Empty() {
		return Reply{Kind: KindEmpty, Title: fmt.Sprintf("No data found for the period %s.", label)}
	}

	summary := make([]Line, 0, len(result.Totals))
	for _, total := range result.Totals {
		summary = append(summary, Line{
			Label: total.Measure.Label,
			Value: FormatMeasure(total.Measure.Kind, total.Value, currency),
		})
	}

	return Reply{
		Kind:    KindSummary,
		Title:   fmt.Sprintf("Summary for %s:", label),
		Summary: summary,
		Columns: columns,
		Rows:    cells(result.Rows),
	}
}

// FromError explains a query error to the user.
func FromError(err error) Reply {
	var notFound *holiday.NotFoundError

	switch {
	case errors.Is(err, query.ErrUnrecognized):
		return Reply{Kind: KindError, Title: "Sorry, I did not understand that. Please use one of the known formats:\n" + Formats()}
	case errors.Is(err, query.ErrInvalidDate):
		return Reply{Kind: KindError, Title: "That date does not exist. Please use the format DD/MM/YYYY."}
	case errors.Is(err, query.ErrReversedRange):
		return Reply{Kind: KindError, Title: "The period starts after it ends. Please write it as de DD/MM/YYYY a DD/MM/YYYY with the earlier date first."}
	case errors.As(err, &notFound):
		return Reply{Kind: KindError, Title: fmt.Sprintf("Could not find the holiday '%s' for the year %d.", notFound.Name, notFound.Year)}
	}

	return Reply{Kind: KindError, Title: "Something went wrong while answering, please try again."}
}

// Welcome is the greeting shown to new users and for the help command.
func Welcome() Reply {
	return Reply{
		Kind:  KindHelp,
		Title: "Hello! I answer questions about revenue.\n\nYou can send me:\n" + Formats(),
	}
}

// Formats lists the accepted query shapes.
func Formats() string {
	return strings.Join([]string{
		"1. A specific date: DD/MM/YYYY",
		"2. An event and year: carnaval 2024, natal 2023",
		"3. A month and year: fevereiro 2024",
		"4. A period: de 01/01/2024 a 15/01/2024",
	}, "\n")
}

// FormatMeasure renders money with thousands separators and two decimals
// and counts as plain integers.
func FormatMeasure(kind dataset.Kind, v decimal.Decimal, currency string) string {
	if kind == dataset.Count {
		return strconv.FormatInt(v.IntPart(), 10)
	}

	money := humanize.FormatFloat("#,###.##", v.Abs().InexactFloat64())
	if v.IsNegative() {
		money = "-" + money
	}
	if currency == "" {
		return money
	}
	return currency + " " + money
}

// Headers and Values let a reply be printed as a table.
func (r Reply) Headers() []string {
	if len(r.Columns) == 0 {
		return []string{"message"}
	}
	return r.Columns
}

func (r Reply) Values() [][]string {
	if len(r.Columns) == 0 {
		return [][]string{{r.Title}}
	}
	return r.Rows
}

// WriteText renders the reply the way it is shown in a chat or a terminal.
func (r Reply) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, r.Title); err != nil {
		return err
	}

	if len(r.Summary) > 0 {
		fmt.Fprintln(w)
		for _, line := range r.Summary {
			fmt.Fprintf(w, "  - %s: %s\n", line.Label, line.Value)
		}
	}

	if len(r.Columns) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	if r.Kind == KindSummary {
		fmt.Fprintln(w, "Details:")
	}
	return WriteTable(w, r.Columns, r.Rows)
}

func (r Reply) String() string {
	buf := new(bytes.Buffer)
	_ = r.WriteText(buf)
	return buf.String()
}

// WriteTable dumps rows under a header line.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func cells(rows dataset.Rows) [][]string {
	ret := make([][]string, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.Cells)
	}
	return ret
}
