/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseMeasure(t *testing.T) {
	tt := []struct {
		input string
		kind  Kind
		want  string
		fail  bool
	}{
		{"R$ 1.234,56", Money, "1234.56", false},
		{"R$1.234.567,8", Money, "1234567.8", false},
		{"1234.5", Money, "1234.5", false},
		{" 980,00 ", Money, "980", false},
		{"R$ 1.234", Money, "1234", false},
		{"1.234.567", Money, "1234567", false},
		{"1234.56", Money, "1234.56", false},
		{"0.125", Money, "0.125", false},
		{"1.234", Count, "1234", false},
		{"1500", Count, "1500", false},
		{"42", Count, "42", false},
		{"42,9", Count, "42", false},
		{"", Money, "", true},
		{"R$", Money, "", true},
		{"n/a", Count, "", true},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMeasure(tc.input, tc.kind, "R$")
			if tc.fail {
				if err == nil {
					t.Errorf("expected %q to fail, got %s", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if want := decimal.RequireFromString(tc.want); !got.Equal(want) {
				t.Errorf("ParseMeasure(%q) = %s, wanted %s", tc.input, got, want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	want := day(2024, time.February, 13)

	for _, input := range []string{
		"2024-02-13",
		"2024-02-13 00:00:00",
		"2024-02-13T10:00:00-03:00",
		"13/02/2024",
		"13/2/2024",
		"02-13-24",
		"45335",
	} {
		got, err := ParseDate(input)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %s", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %s, wanted %s", input, got, want)
		}
	}

	for _, input := range []string{"", "amanhã", "31/02/2024"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("ParseDate(%q) should fail", input)
		}
	}
}

func TestBuild(t *testing.T) {
	records := [][]string{
		{"Dia", "Loja", "Receitas Totais Líquidas", "Pessoas Atendidas"},
		{"02/01/2024", "Centro", "R$ 1.000,50", "10"},
		{"01/01/2024", "Centro", "R$ 2.000,00", "20"},
		{"data inválida", "Centro", "R$ 5,00", "1"},
		{"03/01/2024", "Centro", "", "3"},
		{"04/01/2024", "Centro", "R$ 10,00"},
	}

	ds, dropped, err := Build(records, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 3 {
		t.Errorf("expected 3 dropped rows, got %d", dropped)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", ds.Len())
	}

	rows := ds.FindByRange(day(2024, time.January, 1), day(2024, time.January, 31))
	if got := rows[0].Cells; got[0] != "2024-01-01" || got[2] != "2000.00" || got[3] != "20" {
		t.Errorf("unexpected cleaned cells: %v", got)
	}
	if len(ds.Columns()) != 4 || ds.Columns()[1] != "Loja" {
		t.Errorf("columns should be kept in source order: %v", ds.Columns())
	}
}

func TestBuildErrors(t *testing.T) {
	if _, _, err := Build(nil, DefaultSchema()); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty for no records, got %v", err)
	}

	if _, _, err := Build([][]string{{"Data", "Valor"}}, DefaultSchema()); err == nil {
		t.Error("expected an error for a missing date column")
	}

	if _, _, err := Build([][]string{{"Dia", "Pessoas Atendidas"}}, DefaultSchema()); err == nil {
		t.Error("expected an error for a missing measure column")
	}

	only := [][]string{
		{"Dia", "Receitas Totais Líquidas", "Pessoas Atendidas"},
		{"", "", ""},
	}
	if _, dropped, err := Build(only, DefaultSchema()); !errors.Is(err, ErrEmpty) || dropped != 1 {
		t.Errorf("expected ErrEmpty with 1 dropped row, got %v and %d", err, dropped)
	}
}
