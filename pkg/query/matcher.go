/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dburkart/tally/pkg/normalize"
	"github.com/pkg/errors"
)

var (
	// ErrUnrecognized is returned when text matches none of the known shapes.
	ErrUnrecognized = errors.New("unrecognized input")
	// ErrInvalidDate is returned when text is shaped like a date (or a range
	// of dates) that does not exist on the calendar, and nothing else matched.
	ErrInvalidDate = errors.New("invalid date")
)

var (
	exactDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	rangePattern     = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})\s*a\s*(\d{1,2})/(\d{1,2})/(\d{4})`)
	yearPattern      = regexp.MustCompile(`\d{4}`)
)

// Matcher classifies normalized text into an Expression. A Matcher holds no
// mutable state and can be shared.
type Matcher struct {
	months   []MonthName
	keywords []Keyword
	now      func() time.Time
}

// NewMatcher builds a matcher over the given tables, normalizing every entry.
// now supplies the year used when the text does not name one.
func NewMatcher(months []MonthName, keywords []Keyword, now func() time.Time) *Matcher {
	m := &Matcher{
		months:   make([]MonthName, len(months)),
		keywords: make([]Keyword, len(keywords)),
		now:      now,
	}
	for i, month := range months {
		m.months[i] = MonthName{Name: normalize.Normalize(month.Name), Month: month.Month}
	}
	for i, k := range keywords {
		m.keywords[i] = Keyword{Phrase: normalize.Normalize(k.Phrase), Holiday: k.Holiday}
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func DefaultMatcher() *Matcher {
	return NewMatcher(Months, Keywords, time.Now)
}

// Classify applies, in order, the exact date, explicit range, month and event
// rules to text, which must already be normalized. The first rule that fires
// decides the expression.
func (m *Matcher) Classify(text string) (Expression, error) {
	text = strings.TrimSpace(text)
	sawInvalidDate := false

	if match := exactDatePattern.FindStringSubmatch(text); match != nil {
		date, ok := civilDate(match[1], match[2], match[3])
		if ok {
			return ExactDate{Date: date}, nil
		}
		sawInvalidDate = true
	}

	if strings.Contains(text, "de") && strings.Contains(text, "a") {
		if match := rangePattern.FindStringSubmatch(text); match != nil {
			start, okStart := civilDate(match[1], match[2], match[3])
			end, okEnd := civilDate(match[4], match[5], match[6])
			if okStart && okEnd {
				return ExplicitRange{Start: start, End: end}, nil
			}
			sawInvalidDate = true
		}
	}

	for _, month := range m.months {
		if strings.Contains(text, month.Name) {
			return MonthQuery{Year: m.year(text), Month: month.Month}, nil
		}
	}

	for _, k := range m.keywords {
		if strings.Contains(text, k.Phrase) {
			return EventQuery{
				Year:    m.year(text),
				Keyword: k.Phrase,
				Holiday: k.Holiday,
				Week:    strings.Contains(text, WeekQualifier),
			}, nil
		}
	}

	if sawInvalidDate {
		return nil, ErrInvalidDate
	}
	return nil, ErrUnrecognized
}

// year returns the first four digit run in text, or the current year.
func (m *Matcher) year(text string) int {
	if match := yearPattern.FindString(text); match != "" {
		if y, err := strconv.Atoi(match); err == nil {
			return y
		}
	}
	return m.now().Year()
}

// civilDate builds a date from day, month and year digits, rejecting dates
// that do not exist (31/02, 29/02 outside leap years, month 13).
func civilDate(d, m, y string) (time.Time, bool) {
	day, errD := strconv.Atoi(d)
	month, errM := strconv.Atoi(m)
	year, errY := strconv.Atoi(y)
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return time.Time{}, false
	}
	return date, true
}
