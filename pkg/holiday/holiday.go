/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package holiday computes the Brazilian holiday calendar for a given year.
package holiday

import (
	"fmt"
	"sort"
	"time"
)

// MinYear is the first year the Gregorian computus is defined for.
const MinYear = 1583

// A Holiday is an entry in the generic calendar. Date returns the holiday's
// date in a given year.
type Holiday struct {
	Name  string
	Since int // first year observed, 0 if always
	Date  func(year int) time.Time
}

// A Fixed date is an observance pinned to the same month and day every year.
// Fixed dates are not part of the generic calendar; they are consulted before
// it and always win.
type Fixed struct {
	Month time.Month
	Day   int
}

// An Observance is a holiday resolved for a specific year.
type Observance struct {
	Name string
	Date time.Time
}

// NotFoundError is returned when the calendar has no entry for a name in a
// given year.
type NotFoundError struct {
	Name string
	Year int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("holiday %q not found for year %d", e.Name, e.Year)
}

type Calendar struct {
	holidays  []Holiday
	overrides map[string]Fixed
}

// NewCalendar builds a calendar from a generic holiday list and an override
// table.
func NewCalendar(holidays []Holiday, overrides map[string]Fixed) *Calendar {
	return &Calendar{
		holidays:  holidays,
		overrides: overrides,
	}
}

// Brazil returns the national calendar along with the observances tally
// knows about that are not official holidays.
func Brazil() *Calendar {
	return NewCalendar(BrazilianHolidays, BrazilianOverrides)
}

// Resolve returns the date of the named holiday in year. Names in the
// override table always resolve to their fixed date; anything else must be
// observed in the generic calendar that year.
func (c *Calendar) Resolve(name string, year int) (time.Time, error) {
	if fixed, ok := c.overrides[name]; ok {
		return date(year, fixed.Month, fixed.Day), nil
	}

	if year < MinYear {
		return time.Time{}, &NotFoundError{Name: name, Year: year}
	}

	for _, h := range c.holidays {
		if h.Name != name {
			continue
		}
		if year < h.Since {
			break
		}
		return h.Date(year), nil
	}

	return time.Time{}, &NotFoundError{Name: name, Year: year}
}

// Year lists every holiday and override observed in year, ordered by date.
func (c *Calendar) Year(year int) []Observance {
	var observances []Observance

	if year >= MinYear {
		for _, h := range c.holidays {
			if year < h.Since {
				continue
			}
			observances = append(observances, Observance{Name: h.Name, Date: h.Date(year)})
		}
	}
	for name, fixed := range c.overrides {
		observances = append(observances, Observance{Name: name, Date: date(year, fixed.Month, fixed.Day)})
	}

	sort.SliceStable(observances, func(i, j int) bool {
		if observances[i].Date.Equal(observances[j].Date) {
			return observances[i].Name < observances[j].Name
		}
		return observances[i].Date.Before(observances[j].Date)
	})

	return observances
}

// Easter returns Easter Sunday for a Gregorian year, using the anonymous
// Gregorian algorithm (Meeus/Jones/Butcher).
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return date(year, time.Month(month), day)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fixed(month time.Month, day int) func(int) time.Time {
	return func(year int) time.Time {
		return date(year, month, day)
	}
}

func fromEaster(days int) func(int) time.Time {
	return func(year int) time.Time {
		return Easter(year).AddDate(0, 0, days)
	}
}
