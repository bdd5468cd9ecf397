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

// Package collector produces one telemetry record per invocation.
//
// # Overview
//
// A Collector asks its Source (normally tegrastats) for output lines and
// parses the most recent one. When the source fails, times out or prints
// nothing, the Collector asks its Fallback (normally the procfs estimator)
// instead. When that fails too, the record is fully defaulted.
//
// Collect never returns an error. The path that produced the record is
// reported as a Mode:
//
//	m, mode := c.Collect(ctx)
//	// mode is ModePrimary, ModeFallback or ModeDefault
//
// # Sources
//
// CommandSource runs an external program with a time budget and returns
// after it has captured MaxLines lines, killing the program:
//
//	src := &collector.CommandSource{
//	    Path:     "tegrastats",
//	    Args:     []string{"--interval", "1000"},
//	    Timeout:  3 * time.Second,
//	    MaxLines: 1,
//	}
//
// # Factory Pattern
//
// DefaultFactory builds the source, the fallback and the Collector from
// plain settings so commands do not assemble them by hand:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithTegrastatsPath("/usr/bin/tegrastats"),
//	    collector.WithProcRoot("/host/proc"),
//	)
//	c := factory.CreateCollector()
//
// # Logging
//
// Switching from the primary source to fallback is logged once at Warn.
// Recovery is logged at Info. Every cycle is logged at Debug.
package collector
