/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package holiday

import "time"

// Canonical holiday names.
const (
	NewYearsDay          = "New Year's Day"
	Carnival             = "Carnival"
	GoodFriday           = "Good Friday"
	EasterSunday         = "Easter Sunday"
	TiradentesDay        = "Tiradentes' Day"
	LabourDay            = "Labour Day"
	CorpusChristi        = "Corpus Christi"
	IndependenceDay      = "Independence Day"
	OurLadyOfAparecida   = "Our Lady of Aparecida"
	AllSoulsDay          = "All Souls' Day"
	RepublicProclamation = "Republic Proclamation Day"
	BlackAwarenessDay    = "National Day of Zumbi and Black Awareness"
	Christmas            = "Christmas"
	DiaDosNamorados      = "Dia dos Namorados"
)

var BrazilianHolidays = []Holiday{
	{Name: NewYearsDay, Date: fixed(time.January, 1)},
	// Carnival Tuesday
	{Name: Carnival, Date: fromEaster(-47)},
	{Name: GoodFriday, Date: fromEaster(-2)},
	{Name: EasterSunday, Date: fromEaster(0)},
	{Name: TiradentesDay, Date: fixed(time.April, 21)},
	{Name: LabourDay, Date: fixed(time.May, 1)},
	{Name: CorpusChristi, Date: fromEaster(60)},
	{Name: IndependenceDay, Date: fixed(time.September, 7)},
	{Name: OurLadyOfAparecida, Since: 1980, Date: fixed(time.October, 12)},
	{Name: AllSoulsDay, Date: fixed(time.November, 2)},
	{Name: RepublicProclamation, Date: fixed(time.November, 15)},
	{Name: BlackAwarenessDay, Since: 2024, Date: fixed(time.November, 20)},
	{Name: Christmas, Date: fixed(time.December, 25)},
}

var BrazilianOverrides = map[string]Fixed{
	DiaDosNamorados: {Month: time.June, Day: 12},
}
