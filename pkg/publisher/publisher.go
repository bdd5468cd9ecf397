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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/collector"
	"github.com/NVIDIA/jetson-dashboard/pkg/defaults"
	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

// Collector produces one metrics record per call.
type Collector interface {
	Collect(ctx context.Context) (telemetry.Metrics, collector.Mode)
}

// SystemInfoSource describes the device.
type SystemInfoSource interface {
	SystemInfo(ctx context.Context) telemetry.SystemInfo
}

// Sink receives complete snapshots.
type Sink interface {
	Publish(m telemetry.Metrics, info telemetry.SystemInfo, producedAt time.Time)
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithInterval sets the pause between successful cycles.
func WithInterval(d time.Duration) Option {
	return func(p *Publisher) {
		p.interval = d
	}
}

// WithBackoff sets the pause after a failed cycle.
func WithBackoff(d time.Duration) Option {
	return func(p *Publisher) {
		p.backoff = d
	}
}

// WithCycleTimeout bounds a single cycle.
func WithCycleTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.cycleTimeout = d
	}
}

// WithNotifier sets the supervisor notifier.
func WithNotifier(n Notifier) Option {
	return func(p *Publisher) {
		p.notifier = n
	}
}

// WithClock sets the time source for produced_at.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// Publisher is the only writer of the snapshot store.
type Publisher struct {
	collector    Collector
	sysinfo      SystemInfoSource
	sink         Sink
	interval     time.Duration
	backoff      time.Duration
	cycleTimeout time.Duration
	notifier     Notifier
	now          func() time.Time
}

// New returns a Publisher. sysinfo may be nil, in which case the static
// defaults are published.
func New(c Collector, sysinfo SystemInfoSource, sink Sink, opts ...Option) *Publisher {
	p := &Publisher{
		collector:    c,
		sysinfo:      sysinfo,
		sink:         sink,
		interval:     defaults.PublishInterval,
		backoff:      defaults.PublishBackoff,
		cycleTimeout: defaults.CycleTimeout,
		notifier:     nopNotifier{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOnce runs a single cycle. On error nothing is published.
func (p *Publisher) RunOnce(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			cyclePanics.Inc()
			err = errors.NewWithContext(errors.ErrCodeInternal, "collection cycle panicked",
				map[string]any{"panic": fmt.Sprint(r)})
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, p.cycleTimeout)
	defer cancel()

	m, mode := p.collector.Collect(cctx)

	info := telemetry.DefaultSystemInfo()
	if p.sysinfo != nil {
		info = p.sysinfo.SystemInfo(cctx)
	}

	if err := cctx.Err(); err != nil {
		return errors.WrapWithContext(errors.ErrCodeTimeout, "collection cycle did not finish", err,
			map[string]any{"timeout": p.cycleTimeout.String()})
	}

	producedAt := p.now()
	p.sink.Publish(m, info, producedAt)

	collectionsTotal.WithLabelValues(string(mode)).Inc()
	cycleDuration.Observe(time.Since(start).Seconds())
	lastPublish.Set(float64(producedAt.Unix()))
	observe(m)

	slog.Debug("snapshot published",
		"mode", mode,
		"duration", time.Since(start).String(),
	)
	return nil
}

// Run publishes until ctx is canceled. A failed cycle never stops the loop.
func (p *Publisher) Run(ctx context.Context) error {
	slog.Info("publisher started",
		slog.Duration("interval", p.interval),
		slog.Duration("backoff", p.backoff),
		slog.Duration("cycleTimeout", p.cycleTimeout),
	)
	defer func() {
		if err := p.notifier.Stopping(); err != nil {
			slog.Debug("stopping notification failed", "error", err)
		}
		slog.Info("publisher stopped")
	}()

	ready := false
	for {
		wait := p.interval

		if err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			cycleFailures.Inc()
			slog.Error("collection cycle failed",
				"error", err,
				"backoff", p.backoff.String(),
			)
			wait = p.backoff
		} else {
			if !ready {
				ready = true
				if err := p.notifier.Ready(); err != nil {
					slog.Warn("readiness notification failed", "error", err)
				}
			}
			if err := p.notifier.Alive(); err != nil {
				slog.Debug("watchdog notification failed", "error", err)
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
