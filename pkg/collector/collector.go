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
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/tegrastats"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

// Mode identifies which path produced a record.
type Mode string

const (
	// ModePrimary means the record was parsed from the telemetry utility.
	ModePrimary Mode = "primary"
	// ModeFallback means the record was estimated from kernel pseudo-files.
	ModeFallback Mode = "fallback"
	// ModeDefault means both paths failed and the record is all zero.
	ModeDefault Mode = "default"
)

// Fallback estimates a record when the primary source is unavailable.
type Fallback interface {
	Estimate(ctx context.Context, now time.Time) (telemetry.Metrics, error)
}

// ParseFunc converts one source line into a record.
type ParseFunc func(line string, now time.Time) telemetry.Metrics

// Option configures a Collector.
type Option func(*Collector)

// WithSource sets the primary line source.
func WithSource(s Source) Option {
	return func(c *Collector) {
		c.source = s
	}
}

// WithFallback sets the estimator used when the source is unavailable.
func WithFallback(f Fallback) Option {
	return func(c *Collector) {
		c.fallback = f
	}
}

// WithParser replaces tegrastats.ParseLine.
func WithParser(p ParseFunc) Option {
	return func(c *Collector) {
		c.parse = p
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// Collector turns a Source and a Fallback into one record per call.
type Collector struct {
	source   Source
	fallback Fallback
	parse    ParseFunc
	now      func() time.Time

	degraded atomic.Bool
}

// New returns a Collector. Without a source every call goes to the
// fallback; without a fallback a failed source yields a default record.
func New(opts ...Option) *Collector {
	c := &Collector{
		parse: tegrastats.ParseLine,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect produces one record. It never fails: source errors switch to
// the fallback, fallback errors yield a fully defaulted record.
func (c *Collector) Collect(ctx context.Context) (m telemetry.Metrics, mode Mode) {
	now := c.now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("collection panicked, returning defaults", "panic", fmt.Sprint(r))
			m, mode = telemetry.NewMetrics(now), ModeDefault
		}
	}()

	line, err := c.primary(ctx)
	if err == nil {
		if c.degraded.CompareAndSwap(true, false) {
			slog.Info("primary telemetry source recovered")
		}
		slog.Debug("collected from primary source")
		return c.parse(line, now), ModePrimary
	}

	if c.degraded.CompareAndSwap(false, true) {
		slog.Warn("primary telemetry source unavailable, using fallback", "error", err)
	} else {
		slog.Debug("primary telemetry source still unavailable", "error", err)
	}

	if c.fallback == nil {
		return telemetry.NewMetrics(now), ModeDefault
	}

	m, err = c.fallback.Estimate(ctx, now)
	if err != nil {
		slog.Debug("fallback estimate failed, returning defaults", "error", err)
		return telemetry.NewMetrics(now), ModeDefault
	}
	return m, ModeFallback
}

// primary returns the most recent line from the source.
func (c *Collector) primary(ctx context.Context) (string, error) {
	if c.source == nil {
		return "", errors.New(errors.ErrCodeUnavailable, "no primary source configured")
	}
	lines, err := c.source.Lines(ctx)
	if err != nil {
		return "", err
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return lines[i], nil
		}
	}
	return "", errors.New(errors.ErrCodeUnavailable, "primary source returned no lines")
}

// Degraded reports whether the last call used the fallback path.
func (c *Collector) Degraded() bool {
	return c.degraded.Load()
}
