/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/dburkart/tally/pkg/holiday"
	"github.com/pkg/errors"
)

// ErrReversedRange is returned for ranges whose start is after their end
// when the resolver is configured to reject them.
var ErrReversedRange = errors.New("range starts after it ends")

// RangePolicy decides what happens to an explicit range given backwards.
type RangePolicy int

const (
	// RejectReversed fails with ErrReversedRange.
	RejectReversed RangePolicy = iota
	// SwapReversed exchanges the bounds.
	SwapReversed
	// PassReversed keeps the bounds as typed; such a range matches no rows.
	PassReversed
)

func (p RangePolicy) String() string {
	switch p {
	case RejectReversed:
		return "reject"
	case SwapReversed:
		return "swap"
	case PassReversed:
		return "pass"
	}
	return "unknown"
}

func ParseRangePolicy(s string) (RangePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject", "":
		return RejectReversed, nil
	case "swap":
		return SwapReversed, nil
	case "pass":
		return PassReversed, nil
	}
	return RejectReversed, errors.Errorf("unknown reversed range policy %q", s)
}

// Resolved is the concrete date, or inclusive date range, an expression
// stands for. Single is set when the expression named exactly one day.
type Resolved struct {
	Start  time.Time
	End    time.Time
	Single bool
	Label  string
}

type Resolver struct {
	calendar *holiday.Calendar
	windows  map[string]Window
	policy   RangePolicy
}

func NewResolver(calendar *holiday.Calendar, windows map[string]Window, policy RangePolicy) *Resolver {
	return &Resolver{
		calendar: calendar,
		windows:  windows,
		policy:   policy,
	}
}

func DefaultResolver() *Resolver {
	return NewResolver(holiday.Brazil(), Windows, RejectReversed)
}

// Resolve turns an expression into dates. Holidays missing from the calendar
// surface as *holiday.NotFoundError.
func (r *Resolver) Resolve(expr Expression) (Resolved, error) {
	switch e := expr.(type) {
	case ExactDate:
		return single(e.Date, e.Date.Format(literalDate)), nil

	case ExplicitRange:
		start, end := e.Start, e.End
		if start.After(end) {
			switch r.policy {
			case RejectReversed:
				return Resolved{}, ErrReversedRange
			case SwapReversed:
				start, end = end, start
			}
		}
		return Resolved{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("Period from %s to %s", e.Start.Format(literalDate), e.End.Format(literalDate)),
		}, nil

	case MonthQuery:
		first := time.Date(e.Year, e.Month, 1, 0, 0, 0, 0, time.UTC)
		return Resolved{
			Start: first,
			End:   first.AddDate(0, 1, -1),
			Label: fmt.Sprintf("Month of %s %d", e.Month, e.Year),
		}, nil

	case EventQuery:
		date, err := r.calendar.Resolve(e.Holiday, e.Year)
		if err != nil {
			return Resolved{}, err
		}

		if window, ok := r.windows[e.Holiday]; ok && e.Week {
			return Resolved{
				Start: date.AddDate(0, 0, -window.Before),
				End:   date.AddDate(0, 0, window.After),
				Label: fmt.Sprintf("%s %d", window.Label, e.Year),
			}, nil
		}
		return single(date, fmt.Sprintf("%s %d", e.Holiday, e.Year)), nil
	}

	return Resolved{}, errors.Errorf("cannot resolve expression %v", expr)
}

func single(date time.Time, label string) Resolved {
	return Resolved{Start: date, End: date, Single: true, Label: label}
}
