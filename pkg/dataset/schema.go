/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind tells the loader how to clean a measure column and the formatter how
// to print its total.
type Kind int

const (
	Money Kind = iota
	Count
)

func (k Kind) String() string {
	switch k {
	case Money:
		return "money"
	case Count:
		return "count"
	}
	return "unknown"
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "money", "":
		return Money, nil
	case "count":
		return Count, nil
	}
	return Money, errors.Errorf("unknown measure kind %q", s)
}

// A Measure is a numeric column eligible for aggregation.
type Measure struct {
	Column string
	Label  string
	Kind   Kind
}

type Schema struct {
	DateColumn string
	Currency   string
	Measures   []Measure
}

// DefaultSchema describes the daily revenue workbook tally was built for.
func DefaultSchema() Schema {
	return Schema{
		DateColumn: "Dia",
		Currency:   "R$",
		Measures: []Measure{
			{Column: "Receitas Totais Líquidas", Label: "Total revenue", Kind: Money},
			{Column: "Pessoas Atendidas", Label: "Customers served", Kind: Count},
		},
	}
}
