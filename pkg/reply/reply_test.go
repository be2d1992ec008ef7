/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package reply

import (
	"strings"
	"testing"
	"time"

	"github.com/dburkart/tally/pkg/dataset"
	"github.com/dburkart/tally/pkg/holiday"
	"github.com/dburkart/tally/pkg/query"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func testEngine() *query.Engine {
	var rows dataset.Rows
	for d := 1; d <= 31; d++ {
		date := time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
		n := int64(d)
		rows = append(rows, dataset.Row{
			Date:     date,
			Cells:    []string{date.Format("2006-01-02"), decimal.NewFromInt(100 * n).StringFixed(2), decimal.NewFromInt(n).String()},
			Measures: []decimal.Decimal{decimal.NewFromInt(100 * n), decimal.NewFromInt(n)},
		})
	}

	ds := dataset.New(dataset.DefaultSchema(), []string{"Dia", "Receitas Totais Líquidas", "Pessoas Atendidas"}, rows)
	clock := func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return query.NewEngine(ds, query.NewMatcher(query.Months, query.Keywords, clock), query.DefaultResolver())
}

func TestFormatMeasure(t *testing.T) {
	tt := []struct {
		kind     dataset.Kind
		value    string
		currency string
		want     string
	}{
		{dataset.Money, "1234.56", "R$", "R$ 1,234.56"},
		{dataset.Money, "12000", "R$", "R$ 12,000.00"},
		{dataset.Money, "0", "R$", "R$ 0.00"},
		{dataset.Money, "999.5", "", "999.50"},
		{dataset.Money, "-1500.25", "R$", "R$ -1,500.25"},
		{dataset.Count, "120", "R$", "120"},
		{dataset.Count, "1200", "", "1200"},
	}

	for _, tc := range tt {
		got := FormatMeasure(tc.kind, decimal.RequireFromString(tc.value), tc.currency)
		if got != tc.want {
			t.Errorf("%s %s: expected %q, got %q", tc.kind, tc.value, tc.want, got)
		}
	}
}

func TestAnswerRange(t *testing.T) {
	r, _, err := Answer(testEngine(), "de 01/01/2024 a 15/01/2024")
	if err != nil {
		t.Fatal(err)
	}

	if r.Kind != KindSummary {
		t.Fatalf("expected a summary, got %s", r.Kind)
	}
	if r.Title != "Summary for Period from 01/01/2024 to 15/01/2024:" {
		t.Errorf("unexpected title %q", r.Title)
	}

	want := []Line{{"Total revenue", "R$ 12,000.00"}, {"Customers served", "120"}}
	if len(r.Summary) != len(want) {
		t.Fatalf("expected %d summary lines, got %d", len(want), len(r.Summary))
	}
	for i := range want {
		if r.Summary[i] != want[i] {
			t.Errorf("summary line %d: expected %+v, got %+v", i, want[i], r.Summary[i])
		}
	}
	if len(r.Rows) != 15 {
		t.Errorf("expected 15 detail rows, got %d", len(r.Rows))
	}

	text := r.String()
	for _, fragment := range []string{"  - Total revenue: R$ 12,000.00", "  - Customers served: 120", "Details:", "2024-01-15"} {
		if !strings.Contains(text, fragment) {
			t.Errorf("expected %q in:\n%s", fragment, text)
		}
	}
}

func TestAnswerSingleDate(t *testing.T) {
	r, _, err := Answer(testEngine(), "05/01/2024")
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != KindRows || r.Title != "Data for 05/01/2024:" {
		t.Errorf("unexpected reply %s %q", r.Kind, r.Title)
	}
	if len(r.Summary) != 0 {
		t.Error("single day replies have no summary")
	}
	if len(r.Rows) != 1 || r.Rows[0][1] != "500.00" {
		t.Errorf("unexpected rows %v", r.Rows)
	}
	if strings.Contains(r.String(), "Details:") {
		t.Error("single day replies have no details section")
	}
}

func TestAnswerEmpty(t *testing.T) {
	e := testEngine()

	tt := []struct {
		input string
		title string
	}{
		{"25/12/2023", "No data found for 25/12/2023."},
		{"natal 2023", "No data found for Christmas 2023."},
		{"fevereiro 2024", "No data found for the period Month of February 2024."},
		{"semana do carnaval 2024", "No data found for the period Carnival Week 2024."},
	}

	for _, tc := range tt {
		r, _, err := Answer(e, tc.input)
		if err != nil {
			t.Errorf("%s: an empty result is not an error: %s", tc.input, err)
			continue
		}
		if r.Kind != KindEmpty || r.Title != tc.title {
			t.Errorf("%s: expected %q, got %s %q", tc.input, tc.title, r.Kind, r.Title)
		}
	}
}

func TestAnswerErrors(t *testing.T) {
	e := testEngine()

	tt := []struct {
		input    string
		err      error
		fragment string
	}{
		{"xyz", query.ErrUnrecognized, "DD/MM/YYYY"},
		{"31/02/2024", query.ErrInvalidDate, "DD/MM/YYYY"},
		{"de 15/01/2024 a 01/01/2024", query.ErrReversedRange, "earlier date first"},
	}

	for _, tc := range tt {
		r, _, err := Answer(e, tc.input)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: expected %v, got %v", tc.input, tc.err, err)
		}
		if r.Kind != KindError || !strings.Contains(r.Title, tc.fragment) {
			t.Errorf("%s: unexpected reply %s %q", tc.input, r.Kind, r.Title)
		}
	}

	r, _, _ := Answer(e, "consciência negra 2023")
	want := "Could not find the holiday 'National Day of Zumbi and Black Awareness' for the year 2023."
	if r.Title != want {
		t.Errorf("expected %q, got %q", want, r.Title)
	}
}

func TestFromErrorUnknown(t *testing.T) {
	r := FromError(errors.New("disk on fire"))
	if r.Kind != KindError || strings.Contains(r.Title, "disk") {
		t.Errorf("internal errors must not leak to users: %q", r.Title)
	}

	r = FromError(errors.Wrap(&holiday.NotFoundError{Name: holiday.Carnival, Year: 1500}, "resolve"))
	if !strings.Contains(r.Title, "1500") {
		t.Errorf("wrapped not found errors keep their details: %q", r.Title)
	}
}

func TestPrintable(t *testing.T) {
	r := Welcome()
	if h := r.Headers(); len(h) != 1 || h[0] != "message" {
		t.Errorf("unexpected headers %v", h)
	}
	if v := r.Values(); len(v) != 1 || v[0][0] != r.Title {
		t.Errorf("unexpected values %v", v)
	}

	r, _, _ = Answer(testEngine(), "janeiro 2024")
	if len(r.Headers()) != 3 || len(r.Values()) != 31 {
		t.Errorf("expected the detail table, got %d columns and %d rows", len(r.Headers()), len(r.Values()))
	}
}
