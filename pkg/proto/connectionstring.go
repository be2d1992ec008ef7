/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package proto

import (
	"net/url"

	"github.com/pkg/errors"
)

var Protocol = "tally"

type ConnectionString struct {
	Local   bool
	Address string
	Source  string
}

// ParseConnectionString takes a connection string and parses it into the parts
// the application needs to make a connection. Anything that is not a tally://
// URL names a local dataset source, which is handed to the dataset loader
// untouched.
//
// Formats:
//
//	./path/to/dataset.xlsx
//	sqlite://./path/to/dataset.db?table=Faturamento
//	tally://<host:port>
func ParseConnectionString(connStr string) (ConnectionString, error) {
	ret := ConnectionString{
		Local:   true,
		Address: "local",
		Source:  connStr,
	}

	if connStr == "" {
		return ConnectionString{}, errors.New("empty connection string")
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return ConnectionString{}, errors.Wrapf(err, "invalid connection string %q", connStr)
	}

	if u.Scheme != Protocol {
		return ret, nil
	}

	if u.Host == "" {
		return ConnectionString{}, errors.Errorf("missing address in %q", connStr)
	}
	if u.Path != "" && u.Path != "/" {
		return ConnectionString{}, errors.Errorf("unexpected path %s", u.Path)
	}

	ret.Local = false
	ret.Address = u.Host
	ret.Source = ""
	return ret, nil
}
