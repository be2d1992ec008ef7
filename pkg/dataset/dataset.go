/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package dataset holds the date-indexed table every query runs against.
//
// A Dataset is built once from a Source and is read-only afterwards, so it can
// be shared between goroutines without locking.
package dataset

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a single day of data. Cells holds the display value of every column
// in the dataset, Measures holds the parsed value of every measure column in
// schema order.
type Row struct {
	Date     time.Time
	Cells    []string
	Measures []decimal.Decimal
}

type Rows []Row

type Dataset struct {
	schema  Schema
	columns []string
	rows    Rows
}

// New creates a dataset from already cleaned rows. Rows are sorted by date;
// the input slice is copied.
func New(schema Schema, columns []string, rows Rows) *Dataset {
	sorted := make(Rows, len(rows))
	copy(sorted, rows)
	for i := range sorted {
		sorted[i].Date = Day(sorted[i].Date)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	return &Dataset{
		schema:  schema,
		columns: columns,
		rows:    sorted,
	}
}

func (d *Dataset) Schema() Schema {
	return d.schema
}

// Columns returns the header of the dataset, in source order.
func (d *Dataset) Columns() []string {
	return d.columns
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

// FindByDate returns every row recorded on the same calendar day as date.
func (d *Dataset) FindByDate(date time.Time) Rows {
	return d.FindByRange(date, date)
}

// FindByRange returns the rows between start and end, both inclusive. Only
// the calendar day is compared. A range whose start is after its end matches
// nothing.
func (d *Dataset) FindByRange(start, end time.Time) Rows {
	start, end = Day(start), Day(end)

	lo := sort.Search(len(d.rows), func(i int) bool {
		return !d.rows[i].Date.Before(start)
	})
	hi := sort.Search(len(d.rows), func(i int) bool {
		return d.rows[i].Date.After(end)
	})

	if hi <= lo {
		return Rows{}
	}
	return d.rows[lo:hi:hi]
}

func (d *Dataset) Stats() Stats {
	s := Stats{Rows: len(d.rows)}
	if len(d.rows) > 0 {
		s.First = d.rows[0].Date
		s.Last = d.rows[len(d.rows)-1].Date
	}
	return s
}

// Day truncates t to its calendar day, discarding the time of day and zone.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
