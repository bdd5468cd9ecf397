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

package tegrastats

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

var (
	// RAM 2356/7620MB (lfb 5x4MB)
	reRAM = regexp.MustCompile(`RAM (\d+)/(\d+)MB`)
	// SWAP 0/3810MB (cached 0MB)
	reSwap = regexp.MustCompile(`SWAP (\d+)/(\d+)MB`)
	// CPU [0%@729,1%@729,off,0%@729]
	reCPU     = regexp.MustCompile(`CPU \[([^\]]+)\]`)
	reCPUCore = regexp.MustCompile(`(\d+)%@(\d+)`)
	// GR3D_FREQ 0% or GR3D_FREQ 0%@[305]
	reGPU = regexp.MustCompile(`GR3D_FREQ (\d+)%(?:@\[?(\d+)\]?)?`)
	// cpu@50.031C soc2@49.75C
	reTemp = regexp.MustCompile(`(\w+)@([\d.]+)C`)
	// VDD_IN 3709mW/3709mW
	rePower = regexp.MustCompile(`VDD_(\w+) (\d+)mW/(\d+)mW`)
)

// Power rail labels as printed after the VDD_ prefix.
const (
	RailIn       = "IN"
	RailCPUGPUCV = "CPU_GPU_CV"
	RailSoC      = "SOC"
)

// ParseLine converts one tegrastats output line into a metrics record
// stamped with now. Each field is extracted independently; a field whose
// pattern is missing or malformed keeps its zero value.
func ParseLine(line string, now time.Time) telemetry.Metrics {
	m := telemetry.NewMetrics(now)

	if v, ok := ParseMemory(line); ok {
		m.Memory = v
	}
	if v, ok := ParseSwap(line); ok {
		m.Swap = v
	}
	if v, ok := ParseCPU(line); ok {
		m.CPU = v
	}
	if v, ok := ParseGPU(line); ok {
		m.GPU = v
	}
	if v, ok := ParseTemperatures(line); ok {
		m.Temperature = v
	}
	if v, ok := ParsePower(line); ok {
		m.Power = v
	}

	return m
}

// ParseMemory extracts the RAM used/total pair.
func ParseMemory(line string) (telemetry.Usage, bool) {
	return parseUsage(reRAM, line)
}

// ParseSwap extracts the swap used/total pair.
func ParseSwap(line string) (telemetry.Usage, bool) {
	return parseUsage(reSwap, line)
}

func parseUsage(re *regexp.Regexp, line string) (telemetry.Usage, bool) {
	match := re.FindStringSubmatch(line)
	if match == nil {
		return telemetry.Usage{}, false
	}
	used, err := strconv.Atoi(match[1])
	if err != nil {
		return telemetry.Usage{}, false
	}
	total, err := strconv.Atoi(match[2])
	if err != nil {
		return telemetry.Usage{}, false
	}
	return telemetry.NewUsage(used, total), true
}

// ParseCPU extracts the per-core usage list. Tokens that do not look like
// <usage>%@<freq> (for example "off" for an offline core) are skipped.
// The bool is false only when the CPU block itself is absent.
func ParseCPU(line string) (telemetry.CPU, bool) {
	match := reCPU.FindStringSubmatch(line)
	if match == nil {
		return telemetry.CPU{}, false
	}

	cpu := telemetry.CPU{Cores: []telemetry.Core{}}
	total := 0
	for _, token := range strings.Split(match[1], ",") {
		core, ok := parseCore(strings.TrimSpace(token))
		if !ok {
			continue
		}
		cpu.Cores = append(cpu.Cores, core)
		total += core.UsagePercent
	}

	if len(cpu.Cores) > 0 {
		cpu.AveragePercent = telemetry.Round(float64(total)/float64(len(cpu.Cores)), 1)
	}
	return cpu, true
}

func parseCore(token string) (telemetry.Core, bool) {
	match := reCPUCore.FindStringSubmatch(token)
	if match == nil {
		return telemetry.Core{}, false
	}
	usage, err := strconv.Atoi(match[1])
	if err != nil {
		return telemetry.Core{}, false
	}
	freq, err := strconv.Atoi(match[2])
	if err != nil {
		return telemetry.Core{}, false
	}
	return telemetry.Core{UsagePercent: usage, FrequencyMHz: freq}, true
}

// ParseGPU extracts GR3D utilization and, when printed, its frequency.
func ParseGPU(line string) (telemetry.GPU, bool) {
	match := reGPU.FindStringSubmatch(line)
	if match == nil {
		return telemetry.GPU{}, false
	}
	util, err := strconv.Atoi(match[1])
	if err != nil {
		return telemetry.GPU{}, false
	}
	gpu := telemetry.GPU{UtilizationPercent: util}
	if match[2] != "" {
		if freq, err := strconv.Atoi(match[2]); err == nil {
			gpu.FrequencyMHz = freq
		}
	}
	return gpu, true
}

// ParseTemperatures extracts every <sensor>@<temp>C reading. "cpu" and "gpu"
// fill the dedicated fields; sensors named soc* are appended in line order.
// Other sensors (tj, cv0, ...) are ignored.
func ParseTemperatures(line string) (telemetry.Temperature, bool) {
	matches := reTemp.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return telemetry.Temperature{}, false
	}

	temp := telemetry.Temperature{SoC: []telemetry.SensorReading{}}
	found := false
	for _, match := range matches {
		value, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}
		sensor := match[1]
		switch {
		case sensor == "cpu":
			temp.CPUC = value
		case sensor == "gpu":
			temp.GPUC = value
		case strings.HasPrefix(sensor, "soc"):
			temp.SoC = append(temp.SoC, telemetry.SensorReading{SensorName: sensor, TempC: value})
		default:
			continue
		}
		found = true
	}
	return temp, found
}

// ParsePower extracts the current value of the known VDD rails. The max
// value after the slash is dropped.
func ParsePower(line string) (telemetry.Power, bool) {
	matches := rePower.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return telemetry.Power{}, false
	}

	var power telemetry.Power
	found := false
	for _, match := range matches {
		current, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		switch match[1] {
		case RailIn:
			power.VDDIn = current
		case RailCPUGPUCV:
			power.VDDCPUGPUCV = current
		case RailSoC:
			power.VDDSoC = current
		default:
			continue
		}
		found = true
	}
	return power, found
}
