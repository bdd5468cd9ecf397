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

// Package cli implements the jetsond command line.
//
// # Commands
//
// serve - Run the collection loop and the HTTP query surface:
//
//	jetsond serve [--port 8080] [--interval 2s] [--static-dir DIR]
//
// Every interval one metrics record is collected from tegrastats, or from
// /proc and /sys when tegrastats is unavailable, and published as the latest
// snapshot. The HTTP handlers only read that snapshot.
//
// collect - Run a single collection cycle:
//
//	jetsond collect [--no-tegrastats] [--output FILE] [--format json|yaml|table]
//
// parse - Parse tegrastats output given as arguments or on stdin:
//
//	tegrastats | head -n 1 | jetsond parse
//
// sysinfo - Print the resolved device description:
//
//	jetsond sysinfo [--format table]
//
// # Global Flags
//
//	--config, -c   YAML configuration file (JETSOND_CONFIG)
//	--log-level    debug, info, warn or error (LOG_LEVEL)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Configuration
//
// Settings are resolved in order: built-in defaults, the configuration file,
// environment variables, then explicit flags. The HTTP port also honors PORT.
//
// # Version Information
//
// Version, commit and build date are set at build time through ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/jetson-dashboard/pkg/cli.version=1.0.0'"
package cli
