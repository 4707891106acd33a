// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exposes Prometheus counters for cmsd.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmsd_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cmsd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	fileOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmsd_file_operations_total",
			Help: "File operations by kind, operation and result",
		},
		[]string{"kind", "operation", "result"},
	)

	validationRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmsd_validation_rejections_total",
			Help: "Requests rejected by a validation rule",
		},
		[]string{"operation"},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmsd_auth_attempts_total",
			Help: "Sign-in attempts by result",
		},
		[]string{"result"},
	)

	signupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cmsd_signups_total",
			Help: "Accounts created",
		},
	)

	watchConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cmsd_watch_connections_active",
			Help: "Open catalog watch connections",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFileOperation counts one create/upload/rename/duplicate/delete/write.
func RecordFileOperation(kind, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	fileOperationsTotal.WithLabelValues(kind, operation, result).Inc()
}

func RecordValidationRejection(operation string) {
	validationRejectionsTotal.WithLabelValues(operation).Inc()
}

func RecordAuthAttempt(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	authAttemptsTotal.WithLabelValues(result).Inc()
}

func RecordSignup() {
	signupsTotal.Inc()
}

func WatchConnected() {
	watchConnectionsActive.Inc()
}

func WatchDisconnected() {
	watchConnectionsActive.Dec()
}
