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

// Metrics is one collection cycle worth of device telemetry.
// Fields that could not be extracted stay at zero so the JSON shape is fixed.
// A Metrics value is never mutated after it has been published.
type Metrics struct {
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
	Memory      Usage       `json:"memory" yaml:"memory"`
	Swap        Usage       `json:"swap" yaml:"swap"`
	CPU         CPU         `json:"cpu" yaml:"cpu"`
	GPU         GPU         `json:"gpu" yaml:"gpu"`
	Load        Load        `json:"load" yaml:"load"`
	Temperature Temperature `json:"temperature" yaml:"temperature"`
	Power       Power       `json:"power_mw" yaml:"power_mw"`
}

// Usage describes a used/total pair in megabytes.
type Usage struct {
	UsedMB  int     `json:"used_mb" yaml:"used_mb"`
	TotalMB int     `json:"total_mb" yaml:"total_mb"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Core is a single CPU core reading.
type Core struct {
	UsagePercent int `json:"usage_percent" yaml:"usage_percent"`
	FrequencyMHz int `json:"frequency_mhz" yaml:"frequency_mhz"`
}

// CPU holds per-core readings in the order reported by the source.
type CPU struct {
	Cores          []Core  `json:"cores" yaml:"cores"`
	AveragePercent float64 `json:"average_percent" yaml:"average_percent"`
}

// GPU holds integrated GPU load. FrequencyMHz is not exposed by tegrastats
// on Orin class devices and stays 0.
type GPU struct {
	UtilizationPercent int `json:"utilization_percent" yaml:"utilization_percent"`
	FrequencyMHz       int `json:"frequency_mhz" yaml:"frequency_mhz"`
}

// Load holds kernel load averages. Percent is only set in fallback mode.
type Load struct {
	OneMin     float64 `json:"one_min" yaml:"one_min"`
	FiveMin    float64 `json:"five_min" yaml:"five_min"`
	FifteenMin float64 `json:"fifteen_min" yaml:"fifteen_min"`
	Percent    float64 `json:"percent" yaml:"percent"`
}

// SensorReading is a named temperature sensor in degrees Celsius.
type SensorReading struct {
	SensorName string  `json:"sensor_name" yaml:"sensor_name"`
	TempC      float64 `json:"temp_c" yaml:"temp_c"`
}

// Temperature groups the CPU, GPU and SoC thermal readings.
type Temperature struct {
	CPUC float64         `json:"cpu_c" yaml:"cpu_c"`
	GPUC float64         `json:"gpu_c" yaml:"gpu_c"`
	SoC  []SensorReading `json:"soc" yaml:"soc"`
}

// Power holds instantaneous rail power in milliwatts.
type Power struct {
	VDDIn       int `json:"vdd_in" yaml:"vdd_in"`
	VDDCPUGPUCV int `json:"vdd_cpu_gpu_cv" yaml:"vdd_cpu_gpu_cv"`
	VDDSoC      int `json:"vdd_soc" yaml:"vdd_soc"`
}

// NewMetrics returns a fully defaulted record stamped with ts.
// Sequences are empty rather than nil so they encode as [].
func NewMetrics(ts time.Time) Metrics {
	return Metrics{
		Timestamp: ts,
		CPU: CPU{
			Cores: []Core{},
		},
		Temperature: Temperature{
			SoC: []SensorReading{},
		},
	}
}

// Clone returns a deep copy of m.
func (m Metrics) Clone() Metrics {
	out := m
	out.CPU.Cores = append(make([]Core, 0, len(m.CPU.Cores)), m.CPU.Cores...)
	out.Temperature.SoC = append(make([]SensorReading, 0, len(m.Temperature.SoC)), m.Temperature.SoC...)
	return out
}

// SystemInfo is the slowly changing description of the device.
type SystemInfo struct {
	Model              string `json:"model" yaml:"model"`
	L4T                string `json:"l4t" yaml:"l4t"`
	Architecture       string `json:"architecture" yaml:"architecture"`
	Uptime             string `json:"uptime" yaml:"uptime"`
	CPUCores           int    `json:"cpu_cores" yaml:"cpu_cores"`
	CPUModel           string `json:"cpu_model" yaml:"cpu_model"`
	CPUCoresTotal      int    `json:"cpu_cores_total" yaml:"cpu_cores_total"`
	CPUClusters        int    `json:"cpu_clusters" yaml:"cpu_clusters"`
	CPUCoresPerCluster int    `json:"cpu_cores_per_cluster" yaml:"cpu_cores_per_cluster"`
}

// Snapshot pairs the latest metrics with the system info captured in the
// same cycle.
type Snapshot struct {
	Metrics    Metrics    `json:"data" yaml:"data"`
	System     SystemInfo `json:"system" yaml:"system"`
	ProducedAt time.Time  `json:"produced_at" yaml:"produced_at"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Metrics:    s.Metrics.Clone(),
		System:     s.System,
		ProducedAt: s.ProducedAt,
	}
}
