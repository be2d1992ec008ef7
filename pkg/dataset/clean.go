/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrEmpty is returned when no row survives cleaning.
var ErrEmpty = errors.New("dataset has no usable rows")

// dotThousands matches values such as "1.234" or "1.234.567", which pt-BR
// writes without a decimal part.
var dotThousands = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)

var dateFormats = [...]string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"01-02-06",
}

// Build turns raw records (header first) into a Dataset. Rows whose date or
// any measure cannot be parsed are dropped; the number of dropped rows is
// returned alongside the dataset.
func Build(records [][]string, schema Schema) (*Dataset, int, error) {
	if len(records) == 0 {
		return nil, 0, ErrEmpty
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	dateCol := indexOf(header, schema.DateColumn)
	if dateCol < 0 {
		return nil, 0, errors.Errorf("date column %q not found", schema.DateColumn)
	}

	measureCols := make([]int, len(schema.Measures))
	for i, m := range schema.Measures {
		measureCols[i] = indexOf(header, m.Column)
		if measureCols[i] < 0 {
			return nil, 0, errors.Errorf("measure column %q not found", m.Column)
		}
	}

	var rows Rows
	dropped := 0
	for _, record := range records[1:] {
		row, ok := buildRow(record, header, dateCol, measureCols, schema)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, dropped, ErrEmpty
	}

	return New(schema, header, rows), dropped, nil
}

func buildRow(record []string, header []string, dateCol int, measureCols []int, schema Schema) (Row, bool) {
	cells := make([]string, len(header))
	copy(cells, record)

	date, err := ParseDate(cells[dateCol])
	if err != nil {
		return Row{}, false
	}
	cells[dateCol] = date.Format("2006-01-02")

	measures := make([]decimal.Decimal, len(measureCols))
	for i, col := range measureCols {
		m := schema.Measures[i]
		v, err := ParseMeasure(cells[col], m.Kind, schema.Currency)
		if err != nil {
			return Row{}, false
		}
		measures[i] = v
		if m.Kind == Count {
			cells[col] = v.String()
		} else {
			cells[col] = v.StringFixed(2)
		}
	}

	return Row{Date: date, Cells: cells, Measures: measures}, true
}

// ParseDate accepts the date layouts spreadsheets and databases commonly
// produce, including bare Excel serial numbers.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, errors.Errorf("unrecognized date %q", s)
}

// ParseMeasure cleans a numeric cell. Money values may carry the currency
// symbol and Brazilian separators ("R$ 1.234,56"); a comma marks the decimal
// separator, in which case dots are thousands separators. Without a comma,
// dots only separating groups of three digits are thousands separators too.
// Counts are truncated to whole numbers.
func ParseMeasure(s string, kind Kind, currency string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if currency != "" {
		s = strings.TrimSpace(strings.ReplaceAll(s, currency, ""))
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if dotThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	if s == "" {
		return decimal.Zero, errors.New("empty value")
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parsing %s value", kind)
	}
	if kind == Count {
		v = v.Truncate(0)
	}
	return v, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}
