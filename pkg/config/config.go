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

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/collector"
	"github.com/NVIDIA/jetson-dashboard/pkg/defaults"
	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
	"github.com/NVIDIA/jetson-dashboard/pkg/fallback"
	"github.com/NVIDIA/jetson-dashboard/pkg/logging"
	"github.com/NVIDIA/jetson-dashboard/pkg/serializer"
)

// DefaultPort is the HTTP port used when neither the file nor the
// environment sets one.
const DefaultPort = 8080

// Config is the jetsond runtime configuration.
type Config struct {
	Address string `json:"address" yaml:"address"`
	Port    int    `json:"port" yaml:"port"`

	Interval     time.Duration `json:"interval" yaml:"interval"`
	Backoff      time.Duration `json:"backoff" yaml:"backoff"`
	CycleTimeout time.Duration `json:"cycle_timeout" yaml:"cycle_timeout"`

	Tegrastats Tegrastats `json:"tegrastats" yaml:"tegrastats"`
	Fallback   Fallback   `json:"fallback" yaml:"fallback"`
	SystemInfo SystemInfo `json:"sysinfo" yaml:"sysinfo"`

	StaticDir string `json:"static_dir" yaml:"static_dir"`

	RateLimit      float64 `json:"rate_limit" yaml:"rate_limit"`
	RateLimitBurst int     `json:"rate_limit_burst" yaml:"rate_limit_burst"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Tegrastats configures the primary telemetry source.
type Tegrastats struct {
	Path     string        `json:"path" yaml:"path"`
	Args     []string      `json:"args" yaml:"args"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	Lines    int           `json:"lines" yaml:"lines"`
	Disabled bool          `json:"disabled" yaml:"disabled"`
}

// Fallback configures the procfs/sysfs estimator.
type Fallback struct {
	ProcRoot     string   `json:"proc_root" yaml:"proc_root"`
	SysRoot      string   `json:"sys_root" yaml:"sys_root"`
	ThermalZones []string `json:"thermal_zones" yaml:"thermal_zones"`
}

// SystemInfo configures the device description lookup.
type SystemInfo struct {
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Static skips the device query and always reports the generic defaults.
	Static bool `json:"static" yaml:"static"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:         DefaultPort,
		Interval:     defaults.PublishInterval,
		Backoff:      defaults.PublishBackoff,
		CycleTimeout: defaults.CycleTimeout,
		Tegrastats: Tegrastats{
			Path:    collector.DefaultTegrastatsPath,
			Args:    collector.DefaultTegrastatsArgs(),
			Timeout: defaults.TegrastatsTimeout,
			Lines:   1,
		},
		Fallback: Fallback{
			ProcRoot:     fallback.DefaultProcRoot,
			SysRoot:      fallback.DefaultSysRoot,
			ThermalZones: append([]string(nil), fallback.DefaultThermalZones...),
		},
		SystemInfo: SystemInfo{
			Timeout: defaults.SystemInfoTimeout,
		},
		RateLimit:      100,
		RateLimitBurst: 200,
		LogLevel:       "info",
	}
}

// Load returns the defaults overlaid with the YAML (or JSON) file at path.
// An empty path returns the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	if _, err := serializer.FromFileInto(path, &cfg, serializer.WithStrict(true)); err != nil {
		return Config{}, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"failed to load configuration", err, map[string]any{"path": path})
	}

	slog.Debug("configuration loaded", "path", path)
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return invalid("port", fmt.Sprintf("must be within 1..65535, got %d", c.Port))
	}

	for name, d := range map[string]time.Duration{
		"interval":           c.Interval,
		"backoff":            c.Backoff,
		"cycle_timeout":      c.CycleTimeout,
		"tegrastats.timeout": c.Tegrastats.Timeout,
		"sysinfo.timeout":    c.SystemInfo.Timeout,
	} {
		if d <= 0 {
			return invalid(name, fmt.Sprintf("must be positive, got %s", d))
		}
	}

	if c.Tegrastats.Timeout >= c.CycleTimeout {
		return invalid("tegrastats.timeout", "must be shorter than cycle_timeout")
	}
	if !c.Tegrastats.Disabled && strings.TrimSpace(c.Tegrastats.Path) == "" {
		return invalid("tegrastats.path", "must not be empty")
	}
	if c.Tegrastats.Lines < 1 {
		return invalid("tegrastats.lines", fmt.Sprintf("must be at least 1, got %d", c.Tegrastats.Lines))
	}
	if c.Fallback.ProcRoot == "" || c.Fallback.SysRoot == "" {
		return invalid("fallback", "proc_root and sys_root must not be empty")
	}
	if c.RateLimit <= 0 || c.RateLimitBurst < 1 {
		return invalid("rate_limit", "rate and burst must be positive")
	}
	if !logging.IsValidLevel(c.LogLevel) {
		return invalid("log_level", fmt.Sprintf("unknown level %q", c.LogLevel))
	}

	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

func invalid(field, reason string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid %s: %s", field, reason),
		map[string]any{"field": field})
}
