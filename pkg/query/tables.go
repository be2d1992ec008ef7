/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"time"

	"github.com/dburkart/tally/pkg/holiday"
)

type MonthName struct {
	Name  string
	Month time.Month
}

// Months is scanned in order; the first name found in the text wins. Both
// spellings of março are listed, the matcher normalizes every entry.
var Months = []MonthName{
	{"janeiro", time.January},
	{"fevereiro", time.February},
	{"março", time.March},
	{"marco", time.March},
	{"abril", time.April},
	{"maio", time.May},
	{"junho", time.June},
	{"julho", time.July},
	{"agosto", time.August},
	{"setembro", time.September},
	{"outubro", time.October},
	{"novembro", time.November},
	{"dezembro", time.December},
}

// A Keyword maps a phrase users type to a canonical holiday name.
type Keyword struct {
	Phrase  string
	Holiday string
}

// Keywords is scanned in order and the first phrase contained in the text
// wins, so a phrase that embeds another must be listed before it.
var Keywords = []Keyword{
	{"carnaval", holiday.Carnival},
	{"dia dos namorados", holiday.DiaDosNamorados},
	{"natal", holiday.Christmas},
	{"ano novo", holiday.NewYearsDay},
	{"tiradentes", holiday.TiradentesDay},
	{"dia do trabalho", holiday.LabourDay},
	{"independência", holiday.IndependenceDay},
	{"nossa senhora aparecida", holiday.OurLadyOfAparecida},
	{"finados", holiday.AllSoulsDay},
	{"proclamação da república", holiday.RepublicProclamation},
	{"consciência negra", holiday.BlackAwarenessDay},
	{"corpus christi", holiday.CorpusChristi},
	{"sexta-feira santa", holiday.GoodFriday},
	{"paixão de cristo", holiday.GoodFriday},
	{"páscoa", holiday.EasterSunday},
}

// WeekQualifier asks for the window around a holiday instead of the day.
const WeekQualifier = "semana"

// A Window widens a holiday into a range of days around it.
type Window struct {
	Before int
	After  int
	Label  string
}

// Windows lists the holidays that support the week qualifier. Carnival week
// runs from the Saturday before Carnival Tuesday to Ash Wednesday.
var Windows = map[string]Window{
	holiday.Carnival: {Before: 3, After: 1, Label: "Carnival Week"},
}
