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

package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

var (
	// Cycle metrics
	collectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jetson_collections_total",
			Help: "Total number of published records by collection mode",
		},
		[]string{"mode"},
	)

	cycleFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jetson_collection_failures_total",
			Help: "Total number of collection cycles that failed and were not published",
		},
	)

	cyclePanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jetson_collection_panics_total",
			Help: "Total number of panics recovered in collection cycles",
		},
	)

	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jetson_collection_duration_seconds",
			Help:    "Collection cycle latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 1.5, 2, 3, 5, 10},
		},
	)

	lastPublish = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jetson_last_publish_timestamp_seconds",
			Help: "Unix time of the last published snapshot",
		},
	)

	// Readings
	memoryUsedMB = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jetson_memory_used_megabytes",
			Help: "Used memory in MB",
		},
		[]string{"kind"},
	)

	cpuAverage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jetson_cpu_average_percent",
			Help: "Mean CPU core usage",
		},
	)

	gpuUtilization = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jetson_gpu_utilization_percent",
			Help: "GR3D utilization",
		},
	)

	temperature = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jetson_temperature_celsius",
			Help: "Sensor temperature in degrees Celsius",
		},
		[]string{"sensor"},
	)

	railPower = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jetson_rail_power_milliwatts",
			Help: "Instantaneous rail power",
		},
		[]string{"rail"},
	)
)

// observe exports the readings of a published record.
func observe(m telemetry.Metrics) {
	memoryUsedMB.WithLabelValues("ram").Set(float64(m.Memory.UsedMB))
	memoryUsedMB.WithLabelValues("swap").Set(float64(m.Swap.UsedMB))
	cpuAverage.Set(m.CPU.AveragePercent)
	gpuUtilization.Set(float64(m.GPU.UtilizationPercent))

	// The SoC sensor set can change between records, e.g. on a switch to
	// the fallback collector, so series from the previous record are dropped.
	temperature.Reset()
	temperature.WithLabelValues("cpu").Set(m.Temperature.CPUC)
	temperature.WithLabelValues("gpu").Set(m.Temperature.GPUC)
	for _, s := range m.Temperature.SoC {
		temperature.WithLabelValues(s.SensorName).Set(s.TempC)
	}

	railPower.WithLabelValues("vdd_in").Set(float64(m.Power.VDDIn))
	railPower.WithLabelValues("vdd_cpu_gpu_cv").Set(float64(m.Power.VDDCPUGPUCV))
	railPower.WithLabelValues("vdd_soc").Set(float64(m.Power.VDDSoC))
}
