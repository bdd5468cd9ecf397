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

package defaults

import "time"

// Publisher loop timing.
const (
	// PublishInterval is the pause between successful collection cycles.
	PublishInterval = 2 * time.Second

	// PublishBackoff is the pause after a failed cycle.
	PublishBackoff = 5 * time.Second

	// CycleTimeout bounds a whole collection cycle including system info.
	CycleTimeout = 10 * time.Second
)

// Collector timeouts for data collection operations.
const (
	// TegrastatsTimeout is the budget for capturing output from tegrastats.
	// tegrastats prints its first line after one interval, so this must
	// exceed TegrastatsIntervalMS.
	TegrastatsTimeout = 3 * time.Second

	// TegrastatsIntervalMS is passed to tegrastats --interval.
	TegrastatsIntervalMS = 1000

	// SystemInfoTimeout bounds the best-effort system info query.
	SystemInfoTimeout = 2 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Static file serving.
const (
	// StaticCacheMaxAge is the Cache-Control max-age for dashboard assets.
	StaticCacheMaxAge = time.Hour
)
