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

package cli

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/jetson-dashboard/pkg/collector"
	"github.com/NVIDIA/jetson-dashboard/pkg/config"
	"github.com/NVIDIA/jetson-dashboard/pkg/sysinfo"
)

func tegrastatsPathFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagTegrastatsPath,
		Usage:   "Path of the tegrastats binary",
		Sources: cli.EnvVars(envPrefix + "TEGRASTATS_PATH"),
	}
}

func noTegrastatsFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    flagNoTegrastats,
		Usage:   "Skip tegrastats and estimate from /proc and /sys only",
		Sources: cli.EnvVars(envPrefix + "NO_TEGRASTATS"),
	}
}

func procRootFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagProcRoot,
		Usage:   "Root of the proc filesystem used by the fallback estimator",
		Sources: cli.EnvVars(envPrefix + "PROC_ROOT"),
	}
}

func sysRootFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagSysRoot,
		Usage:   "Root of the sys filesystem used by the fallback estimator",
		Sources: cli.EnvVars(envPrefix + "SYS_ROOT"),
	}
}

func collectionFlags() []cli.Flag {
	return []cli.Flag{
		tegrastatsPathFlag(),
		noTegrastatsFlag(),
		procRootFlag(),
		sysRootFlag(),
	}
}

// loadConfig reads --config and applies the flags the user set explicitly.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return config.Config{}, err
	}

	if cmd.IsSet(flagLogLevel) {
		cfg.LogLevel = cmd.String(flagLogLevel)
	}

	setString(cmd, flagTegrastatsPath, &cfg.Tegrastats.Path)
	setString(cmd, flagProcRoot, &cfg.Fallback.ProcRoot)
	setString(cmd, flagSysRoot, &cfg.Fallback.SysRoot)
	if isSet(cmd, flagNoTegrastats) {
		cfg.Tegrastats.Disabled = cmd.Bool(flagNoTegrastats)
	}

	setString(cmd, flagAddress, &cfg.Address)
	if isSet(cmd, flagPort) {
		cfg.Port = int(cmd.Int(flagPort))
	}
	setDuration(cmd, flagInterval, &cfg.Interval)
	setString(cmd, flagStaticDir, &cfg.StaticDir)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// isSet reports whether the flag exists on cmd and was given.
func isSet(cmd *cli.Command, flag string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == flag {
				return cmd.IsSet(flag)
			}
		}
	}
	return false
}

func setString(cmd *cli.Command, flag string, dst *string) {
	if isSet(cmd, flag) {
		*dst = cmd.String(flag)
	}
}

func setDuration(cmd *cli.Command, flag string, dst *time.Duration) {
	if isSet(cmd, flag) {
		*dst = cmd.Duration(flag)
	}
}

func newCollector(cfg config.Config) *collector.Collector {
	return collector.NewDefaultFactory(
		collector.WithTegrastatsPath(cfg.Tegrastats.Path),
		collector.WithTegrastatsArgs(cfg.Tegrastats.Args),
		collector.WithTegrastatsTimeout(cfg.Tegrastats.Timeout),
		collector.WithTegrastatsLines(cfg.Tegrastats.Lines),
		collector.WithPrimaryDisabled(cfg.Tegrastats.Disabled),
		collector.WithProcRoot(cfg.Fallback.ProcRoot),
		collector.WithSysRoot(cfg.Fallback.SysRoot),
		collector.WithThermalZones(cfg.Fallback.ThermalZones),
	).CreateCollector()
}

func newSystemInfo(cfg config.Config) *sysinfo.Resolver {
	// A nil query makes the resolver report the static defaults.
	var query sysinfo.Provider
	if !cfg.SystemInfo.Static {
		query = sysinfo.NewQueryProvider()
	}
	return sysinfo.NewResolver(query, sysinfo.WithTimeout(cfg.SystemInfo.Timeout))
}
