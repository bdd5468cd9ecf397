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

package telemetry

import "time"

// Generic values reported when the device cannot be identified.
const (
	UnknownValue              = "Unknown"
	DefaultModel              = "NVIDIA Jetson Device"
	DefaultArchitecture       = "ARM (Unified Memory)"
	DefaultCPUModel           = "ARM Cortex-A78AE"
	DefaultCPUCores           = 6
	DefaultCPUClusters        = 2
	DefaultCPUCoresPerCluster = 3
)

// DefaultSystemInfo returns the hardcoded description used when detection
// fails.
func DefaultSystemInfo() SystemInfo {
	return SystemInfo{
		Model:              DefaultModel,
		L4T:                UnknownValue,
		Architecture:       DefaultArchitecture,
		Uptime:             UnknownValue,
		CPUCores:           DefaultCPUCores,
		CPUModel:           DefaultCPUModel,
		CPUCoresTotal:      DefaultCPUCores,
		CPUClusters:        DefaultCPUClusters,
		CPUCoresPerCluster: DefaultCPUCoresPerCluster,
	}
}

// NewSnapshot returns the snapshot served before anything was collected.
func NewSnapshot() Snapshot {
	return Snapshot{
		Metrics: NewMetrics(time.Time{}),
		System:  DefaultSystemInfo(),
	}
}
