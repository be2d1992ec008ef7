/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	KindXLSX   = "xlsx"
	KindCSV    = "csv"
	KindSQLite = "sqlite"
	KindSheets = "sheets"
)

// Source describes where the dataset lives.
type Source struct {
	Kind string
	// Path is a file path for xlsx, csv and sqlite, and the spreadsheet id
	// for Google Sheets.
	Path string
	// Sheet is the worksheet name (xlsx) or A1 range (sheets). Empty means
	// the first worksheet.
	Sheet       string
	Table       string
	Credentials string
}

// ParseSource works out the kind of a source from its scheme or extension.
//
// Formats:
//
//	./Faturamento.xlsx
//	./faturamento.csv
//	sqlite://./data/faturamento.db[?table=<table>]
//	sheets://<spreadsheet id>[?range=<A1 range>]
func ParseSource(s string) (Source, error) {
	if s == "" {
		return Source{}, errors.New("no dataset source configured")
	}

	u, err := url.Parse(s)
	if err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "sqlite":
			return Source{Kind: KindSQLite, Path: u.Host + u.Path, Table: u.Query().Get("table")}, nil
		case "sheets":
			return Source{Kind: KindSheets, Path: u.Host, Sheet: u.Query().Get("range")}, nil
		}
		return Source{}, errors.Errorf("unrecognized dataset scheme: %s", u.Scheme)
	}

	path := strings.TrimPrefix(s, "file://")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return Source{Kind: KindXLSX, Path: path}, nil
	case ".csv":
		return Source{Kind: KindCSV, Path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return Source{Kind: KindSQLite, Path: path}, nil
	}

	return Source{}, errors.Errorf("cannot tell the dataset kind of %q", s)
}

// Load reads, cleans and indexes a dataset. It is called once at startup.
func Load(ctx context.Context, src Source, schema Schema, log zerolog.Logger) (*Dataset, error) {
	var records [][]string
	var err error

	switch src.Kind {
	case KindXLSX:
		records, err = readXLSX(src.Path, src.Sheet)
	case KindCSV:
		records, err = readCSV(src.Path)
	case KindSQLite:
		records, err = readSQLite(ctx, src.Path, src.Table)
	case KindSheets:
		records, err = readSheets(ctx, src.Path, src.Sheet, src.Credentials)
	default:
		err = errors.Errorf("unsupported dataset kind %q", src.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s dataset", src.Kind)
	}
	log.Info().Str("kind", src.Kind).Str("path", src.Path).Int("records", len(records)).Msg("read dataset, cleaning")

	ds, dropped, err := Build(records, schema)
	if err != nil {
		return nil, errors.Wrap(err, "cleaning dataset")
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("dropped rows with unparsable dates or measures")
	}

	stats := ds.Stats()
	log.Info().
		Int("rows", stats.Rows).
		Str("first", stats.First.Format("2006-01-02")).
		Str("last", stats.Last.Format("2006-01-02")).
		Msg("dataset loaded")

	return ds, nil
}
