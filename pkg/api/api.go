// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/serializer"
	"github.com/NVIDIA/jetson-dashboard/pkg/server"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

// Route paths.
const (
	PathData    = "/api/data"
	PathStatus  = "/api/status"
	PathMetrics = "/metrics"
	PathRoot    = "/"
	PathStatic  = "/static/"
)

// StatusRunning is the only status reported by /api/status.
const StatusRunning = "running"

// NeverUpdated is reported as last_update before the first snapshot.
const NeverUpdated = "Never"

// Snapshots is the read side of the snapshot store.
type Snapshots interface {
	Read() telemetry.Snapshot
}

// DataResponse is the body of /api/data. Timestamp is the server time of
// the request in seconds since the epoch, not the snapshot production time.
type DataResponse struct {
	Data      telemetry.Metrics    `json:"data"`
	System    telemetry.SystemInfo `json:"system"`
	Timestamp float64              `json:"timestamp"`
}

// StatusResponse is the body of /api/status.
type StatusResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	LastUpdate string `json:"last_update"`
}

// Option configures the API handlers.
type Option func(*API)

// WithStaticDir serves the dashboard from dir at / and /static/.
func WithStaticDir(dir string) Option {
	return func(a *API) {
		a.staticDir = dir
	}
}

// WithClock overrides the clock used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *API) {
		a.now = now
	}
}

// WithMetricsHandler replaces the Prometheus handler served at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *API) {
		a.metrics = h
	}
}

// API serves the query surface over a snapshot store.
type API struct {
	snapshots Snapshots
	staticDir string
	now       func() time.Time
	metrics   http.Handler
}

// New creates the API handlers for snapshots.
func New(snapshots Snapshots, opts ...Option) *API {
	a := &API{
		snapshots: snapshots,
		now:       time.Now,
		metrics:   promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Routes returns the handlers to register with server.WithHandler.
// The dashboard routes are present only when a static directory is set.
func (a *API) Routes() map[string]http.HandlerFunc {
	routes := map[string]http.HandlerFunc{
		PathData:    a.handleData,
		PathStatus:  a.handleStatus,
		PathMetrics: a.metrics.ServeHTTP,
	}
	if a.staticDir != "" {
		routes[PathRoot] = a.handleDashboard
		routes[PathStatic] = a.handleStatic
	}
	return routes
}

func (a *API) handleData(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	snap := a.snapshots.Read()
	now := a.now()

	serializer.RespondJSON(w, http.StatusOK, DataResponse{
		Data:      snap.Metrics,
		System:    snap.System,
		Timestamp: float64(now.Unix()) + float64(now.Nanosecond())/float64(time.Second),
	})
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	// Both fields come from one Read so they describe the same snapshot.
	snap := a.snapshots.Read()
	resp := StatusResponse{
		Status:     StatusRunning,
		Uptime:     snap.System.Uptime,
		LastUpdate: NeverUpdated,
	}
	if !snap.ProducedAt.IsZero() {
		resp.LastUpdate = snap.ProducedAt.UTC().Format(time.RFC3339)
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
