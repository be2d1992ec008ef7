/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package proto

var (
	// CommandVersion announces the protocol version of each side
	CommandVersion = "VERSION"
	// CommandQuery asks a natural language question of the dataset
	CommandQuery = "QUERY"
	// CommandHelp retrieves the welcome and usage text
	CommandHelp = "HELP"
	// CommandStats retrieves the current dataset stats
	CommandStats = "STATS"
	// CommandError
	CommandError = "ERR"
)

// Version is the protocol version announced by clients and servers.
var Version = "1"
