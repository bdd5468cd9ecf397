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
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/defaults"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

// Provider returns a description of the device.
type Provider interface {
	SystemInfo(ctx context.Context) (telemetry.SystemInfo, error)
}

// StaticProvider returns fixed values. The zero value returns
// telemetry.DefaultSystemInfo.
type StaticProvider struct {
	Info *telemetry.SystemInfo
}

// SystemInfo implements Provider. It never fails.
func (p StaticProvider) SystemInfo(context.Context) (telemetry.SystemInfo, error) {
	if p.Info != nil {
		return *p.Info, nil
	}
	return telemetry.DefaultSystemInfo(), nil
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithStatic replaces the provider used when the query fails.
func WithStatic(p Provider) ResolverOption {
	return func(r *Resolver) {
		r.static = p
	}
}

// WithTimeout bounds each query.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// Resolver selects between a query and a static provider.
type Resolver struct {
	query   Provider
	static  Provider
	timeout time.Duration
	failing atomic.Bool
}

// NewResolver returns a Resolver around query. A nil query always
// resolves to the static values.
func NewResolver(query Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		query:   query,
		static:  StaticProvider{},
		timeout: defaults.SystemInfoTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SystemInfo returns the queried description with unknown fields filled
// from the static provider. A failed query still contributes whatever it
// could read, so a non-Jetson host keeps its uptime and CPU facts.
func (r *Resolver) SystemInfo(ctx context.Context) telemetry.SystemInfo {
	static, err := r.static.SystemInfo(ctx)
	if err != nil {
		static = telemetry.DefaultSystemInfo()
	}
	if r.query == nil {
		return static
	}

	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	info, err := r.query.SystemInfo(qctx)
	if err != nil {
		if r.failing.CompareAndSwap(false, true) {
			slog.Warn("system info query failed, using defaults for unknown fields", "error", err)
		}
		return merge(info, static)
	}
	if r.failing.CompareAndSwap(true, false) {
		slog.Info("system info query recovered")
	}
	return merge(info, static)
}

// merge fills empty fields of info from def.
func merge(info, def telemetry.SystemInfo) telemetry.SystemInfo {
	if info.Model == "" {
		info.Model = def.Model
	}
	if info.L4T == "" {
		info.L4T = def.L4T
	}
	if info.Architecture == "" {
		info.Architecture = def.Architecture
	}
	if info.Uptime == "" {
		info.Uptime = def.Uptime
	}
	if info.CPUCores <= 0 {
		info.CPUCores = def.CPUCores
	}
	if info.CPUModel == "" {
		info.CPUModel = def.CPUModel
	}
	if info.CPUCoresTotal <= 0 {
		info.CPUCoresTotal = info.CPUCores
	}
	if info.CPUClusters <= 0 {
		info.CPUClusters = def.CPUClusters
	}
	if info.CPUCoresPerCluster <= 0 {
		info.CPUCoresPerCluster = def.CPUCoresPerCluster
	}
	return info
}
