/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"github.com/dburkart/tally/pkg/dataset"
	"github.com/prometheus/client_golang/prometheus"
)

type datasetStatsCollector struct {
	ds *dataset.Dataset

	rows     *prometheus.Desc
	firstDay *prometheus.Desc
	lastDay  *prometheus.Desc
}

func NewDatasetStatsCollector(ds *dataset.Dataset, source string) prometheus.Collector {
	labels := prometheus.Labels{"source": source}
	return &datasetStatsCollector{
		ds: ds,
		rows: prometheus.NewDesc(
			"tally_dataset_rows",
			"Number of rows in the loaded dataset.",
			nil, labels,
		),
		firstDay: prometheus.NewDesc(
			"tally_dataset_first_day_seconds",
			"Unix time of the earliest day in the dataset.",
			nil, labels,
		),
		lastDay: prometheus.NewDesc(
			"tally_dataset_last_day_seconds",
			"Unix time of the latest day in the dataset.",
			nil, labels,
		),
	}
}

// Describe implements Collector.
func (c *datasetStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rows
	ch <- c.firstDay
	ch <- c.lastDay
}

// Collect implements Collector.
func (c *datasetStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.ds.Stats()
	ch <- prometheus.MustNewConstMetric(c.rows, prometheus.GaugeValue, float64(stats.Rows))
	ch <- prometheus.MustNewConstMetric(c.firstDay, prometheus.GaugeValue, float64(stats.First.Unix()))
	ch <- prometheus.MustNewConstMetric(c.lastDay, prometheus.GaugeValue, float64(stats.Last.Unix()))
}
