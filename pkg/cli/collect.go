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
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/jetson-dashboard/pkg/collector"
	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

// CollectResult is the output of a single collection cycle.
type CollectResult struct {
	Mode   collector.Mode       `json:"mode" yaml:"mode"`
	Data   telemetry.Metrics    `json:"data" yaml:"data"`
	System telemetry.SystemInfo `json:"system" yaml:"system"`
}

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Run one collection cycle and print the result",
		Description: `Collect one metrics record the same way the service does and print it
together with the system info and the mode that produced it (primary,
fallback or default).

# Examples

  jetsond collect
  jetsond collect --no-tegrastats --format yaml
  jetsond collect --output snapshot.json`,
		Flags: append([]cli.Flag{
			outputFlag(),
			formatFlag(),
		}, collectionFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cfg.CycleTimeout)
			defer cancel()

			m, mode := newCollector(cfg).Collect(ctx)
			info := newSystemInfo(cfg).SystemInfo(ctx)
			slog.Debug("collected", "mode", mode)

			return writeOutput(ctx, cmd, CollectResult{Mode: mode, Data: m, System: info})
		},
	}
}
