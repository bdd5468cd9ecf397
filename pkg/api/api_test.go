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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/jetson-dashboard/pkg/store"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
	"github.com/NVIDIA/jetson-dashboard/pkg/tegrastats"
)

var (
	producedAt = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	requestAt  = time.Date(2025, 1, 15, 10, 30, 1, 500_000_000, time.UTC)
)

func fixedClock() time.Time { return requestAt }

func publishedStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	m := tegrastats.ParseLine("RAM 2356/7620MB SWAP 0/3810MB CPU [10%@729,20%@729] GR3D_FREQ 5% "+
		"cpu@50.0C gpu@52.0C soc0@49.5C VDD_IN 3709mW/3709mW", producedAt)
	info := telemetry.DefaultSystemInfo()
	info.Uptime = "12.5 hours"
	st.Publish(m, info, producedAt)
	return st
}

func serve(t *testing.T, h http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	routes := New(store.New()).Routes()
	assert.Contains(t, routes, PathData)
	assert.Contains(t, routes, PathStatus)
	assert.Contains(t, routes, PathMetrics)
	assert.NotContains(t, routes, PathRoot)
	assert.NotContains(t, routes, PathStatic)

	routes = New(store.New(), WithStaticDir(t.TempDir())).Routes()
	assert.Contains(t, routes, PathRoot)
	assert.Contains(t, routes, PathStatic)
}

func TestHandleData(t *testing.T) {
	a := New(publishedStore(t), WithClock(fixedClock))

	w := serve(t, a.handleData, http.MethodGet, PathData)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, 1736937001.5, raw["timestamp"])

	data := raw["data"].(map[string]any)
	memory := data["memory"].(map[string]any)
	assert.Equal(t, 2356.0, memory["used_mb"])
	assert.Equal(t, 30.9, memory["percent"])
	cpu := data["cpu"].(map[string]any)
	assert.Len(t, cpu["cores"], 2)
	assert.Equal(t, 15.0, cpu["average_percent"])
	power := data["power_mw"].(map[string]any)
	assert.Equal(t, 3709.0, power["vdd_in"])

	system := raw["system"].(map[string]any)
	assert.Equal(t, telemetry.DefaultModel, system["model"])
	assert.Equal(t, "12.5 hours", system["uptime"])
}

func TestHandleData_BeforeFirstSnapshot(t *testing.T) {
	a := New(store.New(), WithClock(fixedClock))

	w := serve(t, a.handleData, http.MethodGet, PathData)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data   map[string]any       `json:"data"`
		System telemetry.SystemInfo `json:"system"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	cpu := resp.Data["cpu"].(map[string]any)
	assert.Equal(t, []any{}, cpu["cores"])
	assert.Equal(t, telemetry.DefaultSystemInfo(), resp.System)
}

func TestHandleStatus(t *testing.T) {
	t.Run("published", func(t *testing.T) {
		a := New(publishedStore(t))

		w := serve(t, a.handleStatus, http.MethodGet, PathStatus)
		require.Equal(t, http.StatusOK, w.Code)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, StatusResponse{
			Status:     StatusRunning,
			Uptime:     "12.5 hours",
			LastUpdate: "2025-01-15T10:30:00Z",
		}, resp)
	})

	t.Run("never updated", func(t *testing.T) {
		a := New(store.New())

		w := serve(t, a.handleStatus, http.MethodGet, PathStatus)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, StatusRunning, resp.Status)
		assert.Equal(t, NeverUpdated, resp.LastUpdate)
	})
}

func TestHandleStatus_ConcurrentPublishesStayConsistent(t *testing.T) {
	st := store.New()
	a := New(st)

	// Every snapshot carries its own production time as the uptime, so a
	// response mixing two snapshots shows two different values.
	publish := func(n int) {
		at := producedAt.Add(time.Duration(n) * time.Second)
		info := telemetry.DefaultSystemInfo()
		info.Uptime = at.Format(time.RFC3339)
		st.Publish(telemetry.NewMetrics(at), info, at)
	}
	publish(0)

	const (
		cycles  = 300
		readers = 4
	)

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for n := 1; n <= cycles; n++ {
			publish(n)
		}
	}()

	mismatches := make(chan StatusResponse, readers)
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				w := httptest.NewRecorder()
				a.handleStatus(w, httptest.NewRequest(http.MethodGet, PathStatus, nil))

				var resp StatusResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Uptime != resp.LastUpdate {
					mismatches <- resp
					return
				}
			}
		}()
	}

	wg.Wait()
	close(mismatches)
	for resp := range mismatches {
		t.Errorf("status mixed two snapshots: uptime %q, last update %q", resp.Uptime, resp.LastUpdate)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	a := New(store.New())

	for _, h := range []http.HandlerFunc{a.handleData, a.handleStatus} {
		w := serve(t, h, http.MethodPost, PathData)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
		assert.Contains(t, w.Body.String(), "METHOD_NOT_ALLOWED")
	}
}

func TestMetricsRoute(t *testing.T) {
	called := false
	a := New(store.New(), WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})))

	w := serve(t, a.Routes()[PathMetrics], http.MethodGet, PathMetrics)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func staticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DashboardFile), []byte("<html>jetson</html>"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("console.log(1)"), 0o600))
	return dir
}

func TestHandleDashboard(t *testing.T) {
	a := New(store.New(), WithStaticDir(staticDir(t)))

	w := serve(t, a.handleDashboard, http.MethodGet, PathRoot)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jetson")
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))

	w = serve(t, a.handleDashboard, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDashboard_MissingIndex(t *testing.T) {
	a := New(store.New(), WithStaticDir(t.TempDir()))

	w := serve(t, a.handleDashboard, http.MethodGet, PathRoot)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleStatic(t *testing.T) {
	a := New(store.New(), WithStaticDir(staticDir(t)))

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCache  bool
	}{
		{"asset", "/static/js/app.js", http.StatusOK, true},
		{"missing", "/static/js/missing.js", http.StatusNotFound, false},
		{"directory", "/static/js", http.StatusNotFound, false},
		{"empty", "/static/", http.StatusNotFound, false},
		{"traversal", "/static/..%2f..%2fetc%2fpasswd", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, a.handleStatic, http.MethodGet, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCache {
				assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
			} else {
				assert.Empty(t, w.Header().Get("Cache-Control"))
			}
		})
	}
}
