/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics records Prometheus metrics for toolbar actions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Export statuses
const (
	StatusSuccess  = "success"
	StatusCanceled = "canceled"
	StatusError    = "error"
)

// Collector owns the toolbar metrics and the registry they are registered on.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	exports          *prometheus.CounterVec
	exportedRows     prometheus.Histogram
	deletes          *prometheus.CounterVec
	deletedRows      prometheus.Counter
	selectionUpdates *prometheus.CounterVec
}

// NewCollector creates the toolbar metrics on registry. If registry is nil
// a new one is created.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "tableselect"
	}

	c := &Collector{
		registry: registry,
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "toolbar",
			Name:      "csv_exports_total",
			Help:      "CSV downloads of selected rows by status.",
		}, []string{"table", "status"}),
		exportedRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "toolbar",
			Name:      "csv_exported_rows",
			Help:      "Number of rows written per CSV download.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 10000},
		}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "toolbar",
			Name:      "deletes_total",
			Help:      "Delete actions by status.",
		}, []string{"table", "status"}),
		deletedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "toolbar",
			Name:      "deleted_rows_total",
			Help:      "Rows removed by delete actions.",
		}),
		selectionUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "toolbar",
			Name:      "selection_updates_total",
			Help:      "Selections set by custom toolbar actions, by result.",
		}, []string{"table", "result"}),
	}

	registry.MustRegister(c.exports, c.exportedRows, c.deletes, c.deletedRows, c.selectionUpdates)
	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordExport records a CSV download attempt.
func (c *Collector) RecordExport(table, status string, rows int) {
	if c == nil {
		return
	}
	c.exports.WithLabelValues(table, status).Inc()
	if status == StatusSuccess {
		c.exportedRows.Observe(float64(rows))
	}
}

// RecordDelete records a delete action.
func (c *Collector) RecordDelete(table, status string, rows int) {
	if c == nil {
		return
	}
	c.deletes.WithLabelValues(table, status).Inc()
	if status == StatusSuccess {
		c.deletedRows.Add(float64(rows))
	}
}

// RecordSelectionUpdate records a custom selection. result is "ok" or the
// error kind.
func (c *Collector) RecordSelectionUpdate(table, result string) {
	if c == nil {
		return
	}
	c.selectionUpdates.WithLabelValues(table, result).Inc()
}
