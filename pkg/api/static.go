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
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/jetson-dashboard/pkg/defaults"
	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/server"
)

// DashboardFile is served at / from the static directory. Other files in
// the directory are served under /static/.
const DashboardFile = "index.html"

var staticCacheControl = fmt.Sprintf("public, max-age=%d", int(defaults.StaticCacheMaxAge.Seconds()))

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	// "/" is a catch-all pattern in ServeMux.
	if r.URL.Path != PathRoot {
		server.WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound,
			"Not found", false, map[string]any{"path": r.URL.Path})
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	a.serveFile(w, r, DashboardFile)
}

func (a *API) handleStatic(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, PathStatic)
	if name == "" || strings.Contains(name, "..") || strings.HasSuffix(name, "/") {
		server.WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound,
			"Not found", false, map[string]any{"path": r.URL.Path})
		return
	}

	w.Header().Set("Cache-Control", staticCacheControl)
	a.serveFile(w, r, name)
}

// serveFile serves name relative to the static directory. os.DirFS refuses
// names that escape the root.
func (a *API) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	fsys := os.DirFS(a.staticDir)
	info, err := os.Stat(filepath.Join(a.staticDir, filepath.FromSlash(name)))
	if err != nil || info.IsDir() {
		w.Header().Del("Cache-Control")
		server.WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound,
			"Not found", false, map[string]any{"path": r.URL.Path})
		return
	}
	http.ServeFileFS(w, r, fsys, name)
}
