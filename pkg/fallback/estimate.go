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

package fallback

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

const bytesPerMB = 1 << 20

// Zone is one thermal zone reading. Raw is the millidegree value as read
// from the temp attribute, or empty when the zone could not be read.
type Zone struct {
	Name string
	Raw  string
}

// Memory holds the /proc/meminfo totals in bytes. Swap is optional and
// left out of the record when SwapTotalBytes is 0.
type Memory struct {
	TotalBytes     uint64
	AvailableBytes uint64
	SwapTotalBytes uint64
	SwapFreeBytes  uint64
}

// LoadAvg is the kernel run queue average over 1, 5 and 15 minutes.
type LoadAvg struct {
	One     float64
	Five    float64
	Fifteen float64
}

// Input is the raw kernel state the estimate is computed from.
type Input struct {
	// At is the timestamp given to the resulting record.
	At       time.Time
	Memory   Memory
	Load     LoadAvg
	CPUCount int
	// Zones are in configuration order. The first maps to the CPU
	// temperature, the second to the GPU, the rest are reported as SoC
	// sensors named after the zone.
	Zones []Zone
}

// Estimate synthesizes a metrics record from in. When memory, load or the
// CPU count cannot be interpreted the whole record is defaulted and an
// error is returned; thermal zones are best effort.
func Estimate(in Input) (telemetry.Metrics, error) {
	m := telemetry.NewMetrics(in.At)

	if in.Memory.TotalBytes == 0 {
		return m, errors.New(errors.ErrCodeUnavailable, "memory total unavailable")
	}
	if in.Memory.AvailableBytes > in.Memory.TotalBytes {
		return m, errors.NewWithContext(errors.ErrCodeUnavailable, "available memory exceeds total",
			map[string]any{"total": in.Memory.TotalBytes, "available": in.Memory.AvailableBytes})
	}

	load, err := toLoad(in.Load)
	if err != nil {
		return m, err
	}

	if in.CPUCount <= 0 {
		return m, errors.NewWithContext(errors.ErrCodeUnavailable, "no processors listed in cpuinfo",
			map[string]any{"count": in.CPUCount})
	}

	totalMB := toMB(in.Memory.TotalBytes)
	m.Memory = telemetry.NewUsage(totalMB-toMB(in.Memory.AvailableBytes), totalMB)

	if swap := in.Memory; swap.SwapTotalBytes > 0 && swap.SwapFreeBytes <= swap.SwapTotalBytes {
		swapTotalMB := toMB(swap.SwapTotalBytes)
		m.Swap = telemetry.NewUsage(swapTotalMB-toMB(swap.SwapFreeBytes), swapTotalMB)
	}

	usage := telemetry.Clamp(load.OneMin/float64(in.CPUCount)*100, 0, 100)
	load.Percent = telemetry.Round(usage, 1)
	m.Load = load

	core := telemetry.Core{UsagePercent: int(telemetry.Round(usage, 0))}
	m.CPU.Cores = make([]telemetry.Core, in.CPUCount)
	for i := range m.CPU.Cores {
		m.CPU.Cores[i] = core
	}
	m.CPU.AveragePercent = telemetry.Round(usage, 1)

	m.Temperature = zoneTemperatures(in.Zones)

	return m, nil
}

// toMB truncates like the kB/1024 division on meminfo values.
func toMB(b uint64) int {
	return int(b / bytesPerMB)
}

func toLoad(avg LoadAvg) (telemetry.Load, error) {
	values := [3]float64{avg.One, avg.Five, avg.Fifteen}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return telemetry.Load{}, errors.NewWithContext(errors.ErrCodeUnavailable, "load average out of range",
				map[string]any{"value": v})
		}
		values[i] = telemetry.Round(v, 2)
	}
	return telemetry.Load{
		OneMin:     values[0],
		FiveMin:    values[1],
		FifteenMin: values[2],
	}, nil
}

func zoneTemperatures(zones []Zone) telemetry.Temperature {
	temp := telemetry.Temperature{SoC: []telemetry.SensorReading{}}
	for i, z := range zones {
		milli, err := strconv.ParseFloat(strings.TrimSpace(z.Raw), 64)
		if err != nil {
			continue
		}
		c := milli / 1000
		switch i {
		case 0:
			temp.CPUC = c
		case 1:
			temp.GPUC = c
		default:
			temp.SoC = append(temp.SoC, telemetry.SensorReading{SensorName: z.Name, TempC: c})
		}
	}
	return temp
}
