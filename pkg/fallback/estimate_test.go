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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

const kB = 1024

func baseInput() Input {
	return Input{
		At: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		Memory: Memory{
			TotalBytes:     7802876 * kB,
			AvailableBytes: 5390000 * kB,
		},
		Load:     LoadAvg{One: 3.00, Five: 1.504, Fifteen: 0.75},
		CPUCount: 6,
	}
}

func TestEstimate_LoadSpreadAcrossCores(t *testing.T) {
	m, err := Estimate(baseInput())
	require.NoError(t, err)

	assert.Equal(t, 50.0, m.CPU.AveragePercent)
	require.Len(t, m.CPU.Cores, 6)
	for _, c := range m.CPU.Cores {
		assert.Equal(t, telemetry.Core{UsagePercent: 50, FrequencyMHz: 0}, c)
	}

	assert.Equal(t, telemetry.Load{OneMin: 3.0, FiveMin: 1.5, FifteenMin: 0.75, Percent: 50.0}, m.Load)
}

func TestEstimate_Memory(t *testing.T) {
	m, err := Estimate(baseInput())
	require.NoError(t, err)

	// 7802876/1024 = 7619, 5390000/1024 = 5263
	assert.Equal(t, 7619, m.Memory.TotalMB)
	assert.Equal(t, 2356, m.Memory.UsedMB)
	assert.Equal(t, 30.9, m.Memory.Percent)
	assert.Zero(t, m.Swap)
}

func TestEstimate_Swap(t *testing.T) {
	in := baseInput()
	in.Memory.SwapTotalBytes = 3901436 * kB
	in.Memory.SwapFreeBytes = 3901436 * kB

	m, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, telemetry.Usage{UsedMB: 0, TotalMB: 3809, Percent: 0}, m.Swap)
}

func TestEstimate_ClampsAtFullLoad(t *testing.T) {
	in := baseInput()
	in.Load = LoadAvg{One: 24, Five: 20, Fifteen: 18}

	m, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, 100.0, m.CPU.AveragePercent)
	assert.Equal(t, 100.0, m.Load.Percent)
	assert.Equal(t, 24.0, m.Load.OneMin)
	assert.Equal(t, 100, m.CPU.Cores[0].UsagePercent)
}

func TestEstimate_SwapIgnoredWhenFreeExceedsTotal(t *testing.T) {
	in := baseInput()
	in.Memory.SwapTotalBytes = 1024 * kB
	in.Memory.SwapFreeBytes = 2048 * kB

	m, err := Estimate(in)
	require.NoError(t, err)
	assert.Zero(t, m.Swap)
}

func TestEstimate_HalfPercentRoundsToEven(t *testing.T) {
	in := baseInput()
	in.Load = LoadAvg{One: 0.75, Five: 0.5, Fifteen: 0.25}

	m, err := Estimate(in)
	require.NoError(t, err)

	// 0.75 over 6 cores is 12.5%
	assert.Equal(t, 12.5, m.CPU.AveragePercent)
	assert.Equal(t, 12.5, m.Load.Percent)
	for _, c := range m.CPU.Cores {
		assert.Equal(t, 12, c.UsagePercent)
	}
}

func TestEstimate_GPUAndPowerStayZero(t *testing.T) {
	m, err := Estimate(baseInput())
	require.NoError(t, err)
	assert.Zero(t, m.GPU)
	assert.Zero(t, m.Power)
}

func TestEstimate_Zones(t *testing.T) {
	in := baseInput()
	in.Zones = []Zone{
		{Name: "thermal_zone0", Raw: "50031"},
		{Name: "thermal_zone1", Raw: ""},
		{Name: "thermal_zone5", Raw: "49750"},
		{Name: "thermal_zone6", Raw: "garbage"},
	}

	m, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, 50.031, m.Temperature.CPUC)
	assert.Equal(t, 0.0, m.Temperature.GPUC)
	assert.Equal(t, []telemetry.SensorReading{{SensorName: "thermal_zone5", TempC: 49.75}}, m.Temperature.SoC)
}

func TestEstimate_DegradesToDefaults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero MemTotal", func(in *Input) { in.Memory.TotalBytes = 0 }},
		{"available above total", func(in *Input) { in.Memory.AvailableBytes = in.Memory.TotalBytes + 1 }},
		{"negative load", func(in *Input) { in.Load.Five = -1 }},
		{"NaN load", func(in *Input) { in.Load.One = math.NaN() }},
		{"no processors", func(in *Input) { in.CPUCount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.Zones = []Zone{{Name: "thermal_zone0", Raw: "50000"}}
			tt.mutate(&in)

			m, err := Estimate(in)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
			assert.Equal(t, telemetry.NewMetrics(in.At), m)
		})
	}
}
