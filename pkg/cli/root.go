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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/jetson-dashboard/pkg/logging"
	"github.com/NVIDIA/jetson-dashboard/pkg/serializer"
)

const (
	name           = "jetsond"
	versionDefault = "dev"

	envPrefix = "JETSOND_"
)

// Flag names.
const (
	flagConfig         = "config"
	flagLogLevel       = "log-level"
	flagOutput         = "output"
	flagFormat         = "format"
	flagTegrastatsPath = "tegrastats-path"
	flagNoTegrastats   = "no-tegrastats"
	flagProcRoot       = "proc-root"
	flagSysRoot        = "sys-root"
	flagAddress        = "address"
	flagPort           = "port"
	flagInterval       = "interval"
	flagStaticDir      = "static-dir"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagConfig,
		Aliases: []string{"c"},
		Usage:   "Path to a YAML configuration file",
		Sources: cli.EnvVars(envPrefix + "CONFIG"),
	}
}

func logLevelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagLogLevel,
		Usage:   "Log level (debug, info, warn, error)",
		Value:   "info",
		Sources: cli.EnvVars(logging.EnvLogLevel),
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (%v)", serializer.SupportedFormats()),
		Value:   string(serializer.FormatJSON),
	}
}

// Execute runs the jetsond command line. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Jetson telemetry service",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `jetsond samples tegrastats on NVIDIA Jetson devices, falls back to
/proc and /sys when tegrastats is unavailable, and serves the latest snapshot
over HTTP for the dashboard.`,
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String(flagLogLevel))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			collectCmd(),
			parseCmd(),
			sysinfoCmd(),
		},
	}
}

// parseOutputFormat returns the --format value or an error naming the
// supported formats.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String(flagFormat))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported: %v", f, serializer.SupportedFormats())
	}
	return f, nil
}

// writeOutput serializes v to --output, or to the command writer when no
// file is given.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	var w *serializer.Writer
	if path := cmd.String(flagOutput); path != "" {
		w = serializer.NewFileWriterOrStdout(format, path)
	} else {
		w = serializer.NewWriter(format, cmd.Root().Writer)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			slog.Warn("failed to close output", "error", cerr)
		}
	}()

	return w.Serialize(ctx, v)
}
