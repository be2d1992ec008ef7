/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package config reads the dataset and query settings shared by every
// command out of viper.
package config

import (
	"strings"

	tally "github.com/dburkart/tally/api"
	"github.com/dburkart/tally/pkg/dataset"
	"github.com/dburkart/tally/pkg/query"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type measure struct {
	Column string `mapstructure:"column"`
	Label  string `mapstructure:"label"`
	Kind   string `mapstructure:"kind"`
}

// Logger returns the logger stored by the root command.
func Logger() zerolog.Logger {
	if log, ok := viper.Get("logger").(zerolog.Logger); ok {
		return log
	}
	return zerolog.Nop()
}

// Source is the configured dataset source string.
func Source() string {
	return viper.GetString("dataset.source")
}

// Schema builds the dataset schema from the dataset.* keys, falling back to
// the defaults for anything unset.
func Schema() (dataset.Schema, error) {
	schema := dataset.DefaultSchema()

	if col := viper.GetString("dataset.date-column"); col != "" {
		schema.DateColumn = col
	}
	if viper.IsSet("dataset.currency") {
		schema.Currency = viper.GetString("dataset.currency")
	}

	if !viper.IsSet("dataset.measures") {
		return schema, nil
	}

	var measures []measure
	if err := viper.UnmarshalKey("dataset.measures", &measures); err != nil {
		return dataset.Schema{}, errors.Wrap(err, "invalid dataset.measures")
	}
	if len(measures) == 0 {
		return dataset.Schema{}, errors.New("dataset.measures must list at least one column")
	}

	schema.Measures = schema.Measures[:0:0]
	for _, m := range measures {
		if strings.TrimSpace(m.Column) == "" {
			return dataset.Schema{}, errors.New("dataset.measures entry without a column")
		}
		kind, err := dataset.ParseKind(m.Kind)
		if err != nil {
			return dataset.Schema{}, errors.Wrapf(err, "measure %s", m.Column)
		}
		label := m.Label
		if label == "" {
			label = m.Column
		}
		schema.Measures = append(schema.Measures, dataset.Measure{Column: m.Column, Label: label, Kind: kind})
	}

	return schema, nil
}

// Options gathers everything needed to load and query a dataset in process.
func Options() (tally.Options, error) {
	opts := tally.DefaultOptions()

	schema, err := Schema()
	if err != nil {
		return tally.Options{}, err
	}
	opts.Schema = schema

	policy, err := query.ParseRangePolicy(viper.GetString("query.reversed-range"))
	if err != nil {
		return tally.Options{}, err
	}
	opts.Policy = policy

	opts.Sheet = viper.GetString("dataset.sheet")
	if opts.Sheet == "" {
		opts.Sheet = viper.GetString("dataset.range")
	}
	opts.Table = viper.GetString("dataset.table")
	opts.Credentials = viper.GetString("dataset.credentials")
	opts.Logger = Logger()

	return opts, nil
}
