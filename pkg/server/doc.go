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

// Package server hosts the jetsond HTTP surface.
//
// A Server owns an http.ServeMux with two unthrottled system endpoints,
// /health and /ready, plus the routes passed through WithHandler. Every
// added route runs behind the same middleware chain:
//
//   - metrics: jetson_http_* request counters and latency histograms
//   - CORS: Access-Control-Allow-Origin: * and preflight replies
//   - version: X-API-Version negotiated from application/vnd.nvidia.jetson.v1+json
//   - request ID: X-Request-Id, generated when absent or not a UUID
//   - panic recovery: 500 with an ErrorResponse body
//   - rate limit: token bucket from golang.org/x/time/rate, 429 with Retry-After
//   - logging: debug records with status, size and duration
//
// When no "/" route is given, a default root handler lists the registered
// routes.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("jetsond"),
//	    server.WithVersion(version),
//	    server.WithHandler(routes),
//	    server.WithReadinessCheck(st.HasData),
//	)
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//
// Start returns after ctx is canceled and in-flight requests have drained,
// bounded by Config.ShutdownTimeout.
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr. The latter
// maps a pkg/errors StructuredError code to an HTTP status and marks
// timeouts, unavailable sources, rate limits and internal errors retryable.
//
// # Configuration
//
// NewConfig reads PORT and SHUTDOWN_TIMEOUT_SECONDS from the environment.
// The CLI overrides the remaining fields from the jetsond configuration.
package server
