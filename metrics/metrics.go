// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is the meter facade of the oracle. Meters are no-op until
// InitializePrometheusMetrics is called, usually by the CLI when --enable-metrics is set.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = defaultNoopMetrics()

// Metrics creates meters by name.
type Metrics interface {
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler serves the active meters, nil while metrics are disabled.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

// Buckets.
var (
	// BucketGas covers a call from a single slot read up to the default call gas limit.
	BucketGas = []int64{0, 5_000, 20_000, 50_000, 100_000, 250_000, 500_000, 1_000_000, 2_500_000, 5_000_000, 10_000_000}
	// BucketHTTPReqs is in milliseconds.
	BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000}
	// BucketBulkSize counts the slots written by one committed call.
	BucketBulkSize = []int64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}
)

// CountVecMeter is a labelled monotonically increasing counter.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// lazy defers creating a meter to its first use, so package level meters bind to
// whichever implementation is active at that time.
func lazy[T any](f func(m Metrics) T) func() T {
	var (
		once   sync.Once
		result T
	)
	return func() T {
		once.Do(func() { result = f(metrics) })
		return result
	}
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazy(func(m Metrics) CountVecMeter { return m.GetOrCreateCountVecMeter(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return lazy(func(m Metrics) GaugeMeter { return m.GetOrCreateGaugeMeter(name) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return lazy(func(m Metrics) HistogramMeter { return m.GetOrCreateHistogramMeter(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazy(func(m Metrics) HistogramVecMeter { return m.GetOrCreateHistogramVecMeter(name, labels, buckets) })
}
