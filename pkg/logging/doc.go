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

// Package logging configures log/slog for jetsond.
//
// Records are JSON on stderr and carry the module name and build version:
//
//	{"time":"2025-01-15T10:30:00Z","level":"WARN","msg":"primary telemetry source unavailable, using fallback","module":"jetsond","version":"v1.0.0","error":"..."}
//
// Debug level adds the source location.
//
// # Levels
//
// debug, info (default), warn or warning, and error, case-insensitive.
// The level comes from --log-level, the log_level configuration key, or
// the LOG_LEVEL environment variable:
//
//	LOG_LEVEL=debug jetsond serve
//
// # Usage
//
//	logging.SetDefaultStructuredLoggerWithLevel("jetsond", version, "info")
//	slog.Info("publisher started", "interval", "2s")
//
// http.Server error output is routed through slog with NewLogLogger.
//
// What gets logged where:
//   - pkg/collector: fallback transitions at Warn, recovery at Info
//   - pkg/publisher: cycle failures at Error, each publish at Debug
//   - pkg/server: one line per request
package logging
