/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"fmt"
	"time"
)

// An Expression is a classified user query. It is built fresh for every
// message and never modified.
type Expression interface {
	// Kind names the shape of the expression, for logs and metrics.
	Kind() string
	String() string
}

const (
	KindDate  = "date"
	KindRange = "range"
	KindMonth = "month"
	KindEvent = "event"
)

type ExactDate struct {
	Date time.Time
}

type ExplicitRange struct {
	Start time.Time
	End   time.Time
}

type MonthQuery struct {
	Year  int
	Month time.Month
}

// EventQuery names a holiday through one of the keywords in the keyword
// table. Week is set when the text asked for the week around the holiday.
type EventQuery struct {
	Year    int
	Keyword string
	Holiday string
	Week    bool
}

func (ExactDate) Kind() string     { return KindDate }
func (ExplicitRange) Kind() string { return KindRange }
func (MonthQuery) Kind() string    { return KindMonth }
func (EventQuery) Kind() string    { return KindEvent }

func (e ExactDate) String() string {
	return fmt.Sprintf("ExactDate(%s)", e.Date.Format(isoDate))
}

func (e ExplicitRange) String() string {
	return fmt.Sprintf("ExplicitRange(%s, %s)", e.Start.Format(isoDate), e.End.Format(isoDate))
}

func (e MonthQuery) String() string {
	return fmt.Sprintf("MonthQuery(%d, %s)", e.Year, e.Month)
}

func (e EventQuery) String() string {
	if e.Week {
		return fmt.Sprintf("EventQuery(%d, %s, week)", e.Year, e.Keyword)
	}
	return fmt.Sprintf("EventQuery(%d, %s)", e.Year, e.Keyword)
}

const (
	isoDate     = "2006-01-02"
	literalDate = "02/01/2006"
)
