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

package sysinfo

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/jetson-dashboard/pkg/collector/file"
	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

// Default locations of the board files.
const (
	DefaultModelPath   = "/proc/device-tree/model"
	DefaultReleasePath = "/etc/nv_tegra_release"
	DefaultCPUSysPath  = "/sys/devices/system/cpu"
)

// First line of nv_tegra_release, e.g.
// "# R36 (release), REVISION: 4.7, GCID: 38968081, BOARD: generic, EABI: aarch64".
var reRelease = regexp.MustCompile(`R(\d+) \(release\), REVISION: ([\d.]+)`)

// QueryOption configures a QueryProvider.
type QueryOption func(*QueryProvider)

// WithModelPath sets the device-tree model file.
func WithModelPath(path string) QueryOption {
	return func(q *QueryProvider) {
		q.modelPath = path
	}
}

// WithReleasePath sets the nv_tegra_release file.
func WithReleasePath(path string) QueryOption {
	return func(q *QueryProvider) {
		q.releasePath = path
	}
}

// WithCPUSysPath sets the sysfs cpu directory used for cluster topology.
func WithCPUSysPath(path string) QueryOption {
	return func(q *QueryProvider) {
		q.cpuSysPath = path
	}
}

// hostFacts are the gopsutil lookups, replaceable in tests.
type hostFacts struct {
	uptime     func(ctx context.Context) (uint64, error)
	kernelArch func(ctx context.Context) (string, error)
	cpuModel   func(ctx context.Context) (string, error)
	cpuCount   func(ctx context.Context) (int, error)
}

func gopsutilFacts() hostFacts {
	return hostFacts{
		uptime: host.UptimeWithContext,
		kernelArch: func(ctx context.Context) (string, error) {
			info, err := host.InfoWithContext(ctx)
			if err != nil {
				return "", err
			}
			return info.KernelArch, nil
		},
		cpuModel: func(ctx context.Context) (string, error) {
			infos, err := cpu.InfoWithContext(ctx)
			if err != nil {
				return "", err
			}
			for _, i := range infos {
				if i.ModelName != "" {
					return i.ModelName, nil
				}
			}
			return "", nil
		},
		cpuCount: func(ctx context.Context) (int, error) {
			return cpu.CountsWithContext(ctx, true)
		},
	}
}

// QueryProvider reads the description from the running system.
type QueryProvider struct {
	modelPath   string
	releasePath string
	cpuSysPath  string
	facts       hostFacts
}

// NewQueryProvider returns a provider reading the live system.
func NewQueryProvider(opts ...QueryOption) *QueryProvider {
	q := &QueryProvider{
		modelPath:   DefaultModelPath,
		releasePath: DefaultReleasePath,
		cpuSysPath:  DefaultCPUSysPath,
		facts:       gopsutilFacts(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SystemInfo implements Provider. Host facts (uptime, architecture, CPU)
// are always queried. When neither the device-tree model nor the L4T
// release can be read the host is not a Jetson: the host facts are still
// returned, together with a NOT_FOUND error. Fields that cannot be read
// are left empty.
func (q *QueryProvider) SystemInfo(ctx context.Context) (telemetry.SystemInfo, error) {
	info := q.hostInfo(ctx)

	if err := ctx.Err(); err != nil {
		return info, errors.Wrap(errors.ErrCodeTimeout, "system info query timed out", err)
	}

	model, modelErr := readModel(q.modelPath)
	l4t, l4tErr := readL4T(q.releasePath)
	if modelErr != nil && l4tErr != nil {
		return info, errors.WrapWithContext(errors.ErrCodeNotFound, "not a Jetson device", modelErr,
			map[string]any{"model": q.modelPath, "release": q.releasePath})
	}
	info.Model = model
	info.L4T = l4t

	return info, nil
}

// hostInfo runs the gopsutil and topology lookups concurrently.
func (q *QueryProvider) hostInfo(ctx context.Context) telemetry.SystemInfo {
	var (
		info telemetry.SystemInfo
		mu   sync.Mutex
	)
	set := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		secs, err := q.facts.uptime(gctx)
		if err == nil {
			set(func() { info.Uptime = FormatUptime(secs) })
		}
		return nil
	})
	g.Go(func() error {
		arch, err := q.facts.kernelArch(gctx)
		if err == nil && arch != "" {
			set(func() { info.Architecture = fmt.Sprintf("%s (Unified Memory)", arch) })
		}
		return nil
	})
	g.Go(func() error {
		name, err := q.facts.cpuModel(gctx)
		if err == nil {
			set(func() { info.CPUModel = name })
		}
		return nil
	})
	g.Go(func() error {
		n, err := q.facts.cpuCount(gctx)
		if err == nil {
			set(func() {
				info.CPUCores = n
				info.CPUCoresTotal = n
			})
		}
		return nil
	})
	g.Go(func() error {
		clusters, perCluster, err := readTopology(q.cpuSysPath)
		if err == nil {
			set(func() {
				info.CPUClusters = clusters
				info.CPUCoresPerCluster = perCluster
			})
		}
		return nil
	})
	_ = g.Wait()

	return info
}

// FormatUptime renders seconds as hours with one decimal, e.g. "12.5 hours".
func FormatUptime(seconds uint64) string {
	return fmt.Sprintf("%.1f hours", float64(seconds)/3600)
}

func readModel(path string) (string, error) {
	return file.NewParser(file.WithStripNUL(true)).GetFirstLine(path)
}

// readL4T returns the release as major.revision, e.g. "36.4.7".
func readL4T(path string) (string, error) {
	line, err := file.NewParser(file.WithSkipComments(false)).GetFirstLine(path)
	if err != nil {
		return "", err
	}
	match := reRelease.FindStringSubmatch(line)
	if match == nil {
		return "", errors.NewWithContext(errors.ErrCodeNotFound, "unrecognized release line",
			map[string]any{"line": line})
	}
	return match[1] + "." + match[2], nil
}

// readTopology counts distinct cluster ids across cpu*/topology/cluster_id.
func readTopology(cpuSysPath string) (clusters, perCluster int, err error) {
	paths, err := filepath.Glob(filepath.Join(cpuSysPath, "cpu[0-9]*", "topology", "cluster_id"))
	if err != nil {
		return 0, 0, err
	}
	if len(paths) == 0 {
		return 0, 0, errors.New(errors.ErrCodeNotFound, "no cpu topology found")
	}

	p := file.NewParser()
	ids := make(map[string]struct{})
	cores := 0
	for _, path := range paths {
		id, err := p.GetFirstLine(path)
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
		cores++
	}
	if len(ids) == 0 {
		return 0, 0, errors.New(errors.ErrCodeNotFound, "no readable cpu topology")
	}
	return len(ids), cores / len(ids), nil
}
