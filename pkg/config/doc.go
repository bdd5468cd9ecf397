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

// Package config holds the jetsond runtime configuration.
//
// Values come from three layers, later ones winning: Default, an optional
// YAML file passed to Load, and CLI flags or JETSOND_* environment
// variables applied by the serve command. Durations use Go syntax ("2s").
//
//	port: 8080
//	interval: 2s
//	tegrastats:
//	  path: /usr/bin/tegrastats
//	  timeout: 3s
//	fallback:
//	  thermal_zones: [thermal_zone0, thermal_zone1, thermal_zone5]
//	static_dir: /opt/jetson-dashboard/static
//
// Validate returns an INVALID_REQUEST StructuredError whose context names
// the offending field.
package config
