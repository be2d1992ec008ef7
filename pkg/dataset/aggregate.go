/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import "github.com/shopspring/decimal"

// Total is the sum of one measure column over a set of rows.
type Total struct {
	Measure Measure
	Value   decimal.Decimal
}

type Totals []Total

// Aggregate sums every measure over rows. An empty row set yields zero
// totals; callers that need to tell "nothing matched" from "everything was
// zero" must check len(rows) themselves.
func Aggregate(rows Rows, measures []Measure) Totals {
	totals := make(Totals, len(measures))
	for i, m := range measures {
		totals[i] = Total{Measure: m, Value: decimal.Zero}
	}

	for _, row := range rows {
		for i := range totals {
			if i >= len(row.Measures) {
				break
			}
			totals[i].Value = totals[i].Value.Add(row.Measures[i])
		}
	}

	return totals
}
