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

package collector

import (
	"strconv"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/defaults"
	"github.com/NVIDIA/jetson-dashboard/pkg/fallback"
)

// DefaultTegrastatsPath is looked up in PATH.
const DefaultTegrastatsPath = "tegrastats"

// DefaultTegrastatsArgs makes tegrastats print one line per second.
func DefaultTegrastatsArgs() []string {
	return []string{"--interval", strconv.Itoa(defaults.TegrastatsIntervalMS)}
}

// Factory creates the collection pipeline.
type Factory interface {
	CreateSource() Source
	CreateFallback() Fallback
	CreateCollector() *Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	TegrastatsPath    string
	TegrastatsArgs    []string
	TegrastatsTimeout time.Duration
	TegrastatsLines   int
	ProcRoot          string
	SysRoot           string
	ThermalZones      []string
	// DisablePrimary skips tegrastats and always uses the fallback.
	DisablePrimary bool
}

// FactoryOption configures a DefaultFactory.
type FactoryOption func(*DefaultFactory)

// WithTegrastatsPath sets the tegrastats executable.
func WithTegrastatsPath(path string) FactoryOption {
	return func(f *DefaultFactory) {
		f.TegrastatsPath = path
	}
}

// WithTegrastatsArgs sets the tegrastats arguments.
func WithTegrastatsArgs(args []string) FactoryOption {
	return func(f *DefaultFactory) {
		f.TegrastatsArgs = append([]string(nil), args...)
	}
}

// WithTegrastatsTimeout sets the capture budget.
func WithTegrastatsTimeout(d time.Duration) FactoryOption {
	return func(f *DefaultFactory) {
		f.TegrastatsTimeout = d
	}
}

// WithTegrastatsLines sets how many lines are captured before stopping.
func WithTegrastatsLines(n int) FactoryOption {
	return func(f *DefaultFactory) {
		f.TegrastatsLines = n
	}
}

// WithProcRoot sets the procfs root for the fallback.
func WithProcRoot(root string) FactoryOption {
	return func(f *DefaultFactory) {
		f.ProcRoot = root
	}
}

// WithSysRoot sets the sysfs root for the fallback.
func WithSysRoot(root string) FactoryOption {
	return func(f *DefaultFactory) {
		f.SysRoot = root
	}
}

// WithThermalZones sets the ordered thermal zones read by the fallback.
func WithThermalZones(zones []string) FactoryOption {
	return func(f *DefaultFactory) {
		f.ThermalZones = append([]string(nil), zones...)
	}
}

// WithPrimaryDisabled makes the collector skip tegrastats.
func WithPrimaryDisabled(disabled bool) FactoryOption {
	return func(f *DefaultFactory) {
		f.DisablePrimary = disabled
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...FactoryOption) *DefaultFactory {
	f := &DefaultFactory{
		TegrastatsPath:    DefaultTegrastatsPath,
		TegrastatsArgs:    DefaultTegrastatsArgs(),
		TegrastatsTimeout: defaults.TegrastatsTimeout,
		TegrastatsLines:   1,
		ProcRoot:          fallback.DefaultProcRoot,
		SysRoot:           fallback.DefaultSysRoot,
		ThermalZones:      append([]string(nil), fallback.DefaultThermalZones...),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateSource creates the tegrastats command source, or nil when the
// primary source is disabled.
func (f *DefaultFactory) CreateSource() Source {
	if f.DisablePrimary {
		return nil
	}
	return &CommandSource{
		Path:     f.TegrastatsPath,
		Args:     append([]string(nil), f.TegrastatsArgs...),
		Timeout:  f.TegrastatsTimeout,
		MaxLines: f.TegrastatsLines,
	}
}

// CreateFallback creates the procfs estimator.
func (f *DefaultFactory) CreateFallback() Fallback {
	return fallback.NewEstimator(fallback.NewReader(
		fallback.WithProcRoot(f.ProcRoot),
		fallback.WithSysRoot(f.SysRoot),
		fallback.WithThermalZones(f.ThermalZones),
	))
}

// CreateCollector creates a Collector wired to the source and fallback.
func (f *DefaultFactory) CreateCollector() *Collector {
	opts := []Option{WithFallback(f.CreateFallback())}
	if src := f.CreateSource(); src != nil {
		opts = append(opts, WithSource(src))
	}
	return New(opts...)
}
