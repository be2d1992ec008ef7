/*
 * Copyright (c) 2024, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import "time"

type Stats struct {
	Rows  int
	First time.Time
	Last  time.Time
}
