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
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/common"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/NVIDIA/jetson-dashboard/pkg/collector/file"
	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

const (
	// DefaultProcRoot is the procfs mount point.
	DefaultProcRoot = "/proc"
	// DefaultSysRoot is the sysfs mount point.
	DefaultSysRoot = "/sys"
)

// DefaultThermalZones are the zones read on Orin class modules: CPU, GPU
// and the SoC junction.
var DefaultThermalZones = []string{"thermal_zone0", "thermal_zone1", "thermal_zone5"}

// Option configures a Reader.
type Option func(*Reader)

// WithProcRoot sets the directory /proc files are read from.
func WithProcRoot(root string) Option {
	return func(r *Reader) {
		r.procRoot = root
	}
}

// WithSysRoot sets the directory /sys files are read from.
func WithSysRoot(root string) Option {
	return func(r *Reader) {
		r.sysRoot = root
	}
}

// WithThermalZones sets the ordered thermal zone directory names.
func WithThermalZones(zones []string) Option {
	return func(r *Reader) {
		r.zones = append([]string(nil), zones...)
	}
}

// Reader loads an Input from procfs and sysfs.
type Reader struct {
	procRoot string
	sysRoot  string
	zones    []string
	zone     *file.Parser
}

// NewReader returns a Reader for the live system unless overridden.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		procRoot: DefaultProcRoot,
		sysRoot:  DefaultSysRoot,
		zones:    append([]string(nil), DefaultThermalZones...),
		// A temp attribute is a single integer.
		zone: file.NewParser(file.WithMaxSize(64)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read collects memory, load average, the logical processor count and the
// thermal zones. Memory, load and processors are read through gopsutil
// with its proc root pointed at the configured one; failing to read any
// of them is an error. An unreadable zone leaves its Raw value empty.
func (r *Reader) Read(ctx context.Context) (Input, error) {
	in := Input{At: time.Now()}

	hctx := context.WithValue(ctx, common.EnvKey, common.EnvMap{
		common.HostProcEnvKey: r.procRoot,
		common.HostSysEnvKey:  r.sysRoot,
	})

	vm, err := mem.VirtualMemoryWithContext(hctx)
	if err != nil {
		return in, errors.Wrap(errors.ErrCodeUnavailable, "failed to read memory", err)
	}
	in.Memory = Memory{
		TotalBytes:     vm.Total,
		AvailableBytes: vm.Available,
		SwapTotalBytes: vm.SwapTotal,
		SwapFreeBytes:  vm.SwapFree,
	}

	avg, err := load.AvgWithContext(hctx)
	if err != nil {
		return in, errors.Wrap(errors.ErrCodeUnavailable, "failed to read load average", err)
	}
	in.Load = LoadAvg{One: avg.Load1, Five: avg.Load5, Fifteen: avg.Load15}

	count, err := cpu.CountsWithContext(hctx, true)
	if err != nil {
		return in, errors.Wrap(errors.ErrCodeUnavailable, "failed to count processors", err)
	}
	in.CPUCount = count

	in.Zones = make([]Zone, 0, len(r.zones))
	for _, name := range r.zones {
		if err := ctx.Err(); err != nil {
			return in, errors.Wrap(errors.ErrCodeTimeout, "thermal zone read canceled", err)
		}
		z := Zone{Name: name}
		raw, err := r.zone.GetFirstLine(filepath.Join(r.sysRoot, "class", "thermal", name, "temp"))
		if err != nil {
			slog.Debug("thermal zone unreadable", "zone", name, "error", err)
		} else {
			z.Raw = raw
		}
		in.Zones = append(in.Zones, z)
	}

	return in, nil
}

// Estimator combines a Reader with Estimate.
type Estimator struct {
	reader *Reader
}

// NewEstimator returns an Estimator reading through r. A nil r reads the
// live system.
func NewEstimator(r *Reader) *Estimator {
	if r == nil {
		r = NewReader()
	}
	return &Estimator{reader: r}
}

// Estimate reads the kernel state and returns a record stamped with now.
// On error the returned record is fully defaulted.
func (e *Estimator) Estimate(ctx context.Context, now time.Time) (telemetry.Metrics, error) {
	in, err := e.reader.Read(ctx)
	if err != nil {
		return telemetry.NewMetrics(now), err
	}
	in.At = now
	return Estimate(in)
}
