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

// Package telemetry defines the records exchanged between the collection
// pipeline and the HTTP layer.
//
// # Records
//
// Metrics is produced once per collection cycle, either by the tegrastats
// line parser or by the procfs fallback estimator. Every field is always
// present: a value that could not be extracted is reported as zero and a
// sequence that could not be extracted is reported as an empty list, so
// consumers can rely on a fixed JSON shape:
//
//	{
//	    "timestamp": "2025-01-15T10:30:00Z",
//	    "memory": {"used_mb": 2356, "total_mb": 7620, "percent": 30.9},
//	    "swap": {"used_mb": 0, "total_mb": 3810, "percent": 0},
//	    "cpu": {"cores": [{"usage_percent": 10, "frequency_mhz": 729}], "average_percent": 10},
//	    "gpu": {"utilization_percent": 0, "frequency_mhz": 0},
//	    "load": {"one_min": 0, "five_min": 0, "fifteen_min": 0, "percent": 0},
//	    "temperature": {"cpu_c": 50.031, "gpu_c": 52.031, "soc": [{"sensor_name": "soc2", "temp_c": 49.75}]},
//	    "power_mw": {"vdd_in": 3709, "vdd_cpu_gpu_cv": 523, "vdd_soc": 1128}
//	}
//
// SystemInfo describes the device and changes rarely. Snapshot pairs the two
// and is replaced wholesale by the publisher; readers always receive a copy
// made with Clone.
package telemetry
