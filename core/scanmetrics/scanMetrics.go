// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Prometheus metrics for pairing runs. The tools are batch jobs, not servers, so
// metrics are written to a node exporter textfile collector instead of being scraped
package scanmetrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/imagepairs"
)

type ScanMetrics struct {
	registry *prometheus.Registry

	FilesScanned prometheus.Counter
	Acquisitions prometheus.Counter
	Pairs        prometheus.Gauge
	Warnings     *prometheus.CounterVec
	Duration     prometheus.Histogram
	LastRun      prometheus.Gauge
}

// New - metrics in their own registry, so only these end up in the textfile
func New(sensor string) *ScanMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"sensor": sensor}, registry))

	m := &ScanMetrics{
		registry: registry,
		FilesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "leadkit_pairing_files_scanned_total",
			Help: "Number of satellite files looked at.",
		}),
		Acquisitions: factory.NewCounter(prometheus.CounterOpts{
			Name: "leadkit_pairing_acquisitions_total",
			Help: "Number of geo files matched with an image file.",
		}),
		Pairs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "leadkit_pairing_pairs",
			Help: "Number of time groups found in the last run.",
		}),
		Warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadkit_pairing_warnings_total",
			Help: "Scan warnings by kind.",
		}, []string{"code"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadkit_pairing_duration_seconds",
			Help:    "Duration of pairing runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "leadkit_pairing_last_run_timestamp_seconds",
			Help: "Unix time the last pairing run finished.",
		}),
	}

	// Every code shows up, even at 0, so alerts don't have to handle missing series
	for _, code := range errorwithcode.AllCodes() {
		m.Warnings.WithLabelValues(code.String())
	}

	return m
}

func (m *ScanMetrics) Record(result imagepairs.Result, elapsed time.Duration, finished time.Time) {
	m.FilesScanned.Add(float64(result.FilesScanned))
	m.Acquisitions.Add(float64(len(result.Pairs)))
	m.Pairs.Set(float64(result.PairCount()))
	for _, w := range result.Warnings {
		m.Warnings.WithLabelValues(w.Code().String()).Inc()
	}
	m.Duration.Observe(elapsed.Seconds())
	m.LastRun.Set(float64(finished.Unix()))
}

// WriteTextfile - writes all metrics in the text exposition format, atomically
func (m *ScanMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %v", path)
	}
	return nil
}
