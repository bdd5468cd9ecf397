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
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/jetson-dashboard/pkg/api"
	"github.com/NVIDIA/jetson-dashboard/pkg/config"
	"github.com/NVIDIA/jetson-dashboard/pkg/logging"
	"github.com/NVIDIA/jetson-dashboard/pkg/publisher"
	"github.com/NVIDIA/jetson-dashboard/pkg/server"
	"github.com/NVIDIA/jetson-dashboard/pkg/store"
)

func addressFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagAddress,
		Usage:   "Address to bind (default: all interfaces)",
		Sources: cli.EnvVars(envPrefix + "ADDRESS"),
	}
}

func portFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    flagPort,
		Aliases: []string{"p"},
		Usage:   "HTTP port",
		Value:   config.DefaultPort,
		Sources: cli.EnvVars(envPrefix+"PORT", "PORT"),
	}
}

func intervalFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:    flagInterval,
		Usage:   "Time between collection cycles",
		Sources: cli.EnvVars(envPrefix + "INTERVAL"),
	}
}

func staticDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagStaticDir,
		Usage:   "Directory holding the dashboard (index.html and assets)",
		Sources: cli.EnvVars(envPrefix + "STATIC_DIR"),
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Collect telemetry continuously and serve it over HTTP",
		Description: `Run the collection loop and the HTTP query surface.

Every interval the collector runs tegrastats once, falling back to /proc and
/sys when it is unavailable, and publishes a snapshot. HTTP handlers only
read the latest snapshot.

# Endpoints

  GET /api/data     latest metrics and system info
  GET /api/status   service status and last update time
  GET /metrics      Prometheus metrics
  GET /health       liveness
  GET /ready        200 once the first snapshot is published

# Examples

  jetsond serve
  jetsond serve --config /etc/jetsond/config.yaml --static-dir /opt/jetson-dashboard
  JETSOND_PORT=5000 jetsond serve --no-tegrastats`,
		Flags: append([]cli.Flag{
			addressFlag(),
			portFlag(),
			intervalFlag(),
			staticDirFlag(),
		}, collectionFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.IsSet(flagLogLevel) {
				logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
			}
			return serve(ctx, cfg)
		},
	}
}

// serve runs the publisher loop and the HTTP server until ctx is canceled
// or either of them fails.
func serve(ctx context.Context, cfg config.Config) error {
	st := store.New()

	pub := publisher.New(newCollector(cfg), newSystemInfo(cfg), st,
		publisher.WithInterval(cfg.Interval),
		publisher.WithBackoff(cfg.Backoff),
		publisher.WithCycleTimeout(cfg.CycleTimeout),
		publisher.WithNotifier(publisher.NewSystemdNotifier()),
	)

	srvCfg := server.NewConfig()
	srvCfg.Address = cfg.Address
	srvCfg.Port = cfg.Port
	srvCfg.RateLimit = rate.Limit(cfg.RateLimit)
	srvCfg.RateLimitBurst = cfg.RateLimitBurst

	srv := server.New(
		server.WithConfig(srvCfg),
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(api.New(st, api.WithStaticDir(cfg.StaticDir)).Routes()),
		server.WithReadinessCheck(st.HasData),
	)

	slog.Info("serving",
		"address", srv.Addr(),
		"interval", cfg.Interval.String(),
		"tegrastats", cfg.Tegrastats.Path,
		"tegrastatsDisabled", cfg.Tegrastats.Disabled,
		"staticDir", cfg.StaticDir,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pub.Run(gctx)
	})
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("jetsond exited with error", "error", err)
		return err
	}

	slog.Info("jetsond stopped")
	return nil
}
