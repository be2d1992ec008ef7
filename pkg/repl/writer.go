/*
 * Copyright (c) 2023, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/dburkart/tally/pkg/holiday"
	"github.com/dburkart/tally/pkg/proto"
	"github.com/dburkart/tally/pkg/reply"
)

var Formats = []string{"text", "csv", "json"}

type OutputWriter interface {
	Write(v proto.Printable) error
}

type CSVWriter struct {
	w io.Writer
}

type TextWriter struct {
	w io.Writer
}

type JSONWriter struct {
	w io.Writer
}

func NewOutputWriter(w io.Writer, t string) OutputWriter {
	switch t {
	case "csv":
		return CSVWriter{
			w,
		}
	case "json":
		return JSONWriter{
			w,
		}
	}
	return TextWriter{
		w,
	}
}

func (w CSVWriter) Write(v proto.Printable) error {
	wtr := csv.NewWriter(w.w)
	if err := wtr.Write(v.Headers()); err != nil {
		return err
	}
	return wtr.WriteAll(v.Values())
}

// Write prints replies the way a chat would show them, and anything else as
// a table.
func (w TextWriter) Write(v proto.Printable) error {
	if r, ok := v.(reply.Reply); ok {
		return r.WriteText(w.w)
	}
	return reply.WriteTable(w.w, v.Headers(), v.Values())
}

func (w JSONWriter) Write(v proto.Printable) error {
	enc := json.NewEncoder(w.w)
	return enc.Encode(v)
}

// ObservanceTable prints a year of holidays.
type ObservanceTable []holiday.Observance

func (t ObservanceTable) Headers() []string {
	return []string{"date", "weekday", "holiday"}
}

func (t ObservanceTable) Values() [][]string {
	ret := make([][]string, 0, len(t))
	for _, o := range t {
		ret = append(ret, []string{o.Date.Format("02/01/2006"), o.Date.Weekday().String(), o.Name})
	}
	return ret
}
