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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/jetson-dashboard/pkg/tegrastats"
)

// maxLineSize bounds a single tegrastats line read from input.
const maxLineSize = 64 * 1024

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:                  "parse",
		EnableShellCompletion: true,
		Usage:                 "Parse a tegrastats line into a metrics record",
		ArgsUsage:             "[LINE]",
		Description: `Parse tegrastats output without running the collector. The line is taken
from the arguments, or from standard input when none are given. When the input
holds several lines the last non-empty one is parsed.

# Examples

  jetsond parse "RAM 2356/7620MB (lfb 5x4MB) CPU [0%@729,1%@729] GR3D_FREQ 0%"
  tegrastats --interval 1000 | head -n 1 | jetsond parse --format yaml`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			line := strings.Join(cmd.Args().Slice(), " ")
			if line == "" {
				r := cmd.Root().Reader
				if r == nil {
					r = os.Stdin
				}
				var err error
				if line, err = lastLine(r); err != nil {
					return err
				}
			}

			return writeOutput(ctx, cmd, tegrastats.ParseLine(line, time.Now()))
		},
	}
}

// lastLine returns the last non-empty line of r.
func lastLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var last string
	for scanner.Scan() {
		if l := strings.TrimSpace(scanner.Text()); l != "" {
			last = l
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return last, nil
}
