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
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/defaults"
	"github.com/NVIDIA/jetson-dashboard/pkg/errors"
)

// killWaitDelay bounds how long a killed command may keep its stdout open
// through child processes.
const killWaitDelay = 250 * time.Millisecond

// Source yields raw telemetry lines.
type Source interface {
	// Lines returns the captured non-empty lines, oldest first. An error or
	// an empty result means the source is unavailable for this cycle.
	Lines(ctx context.Context) ([]string, error)
}

// CommandSource runs an external program and captures its standard output.
type CommandSource struct {
	// Path is the executable, resolved through PATH when not absolute.
	Path string
	// Args are passed to the executable.
	Args []string
	// Timeout bounds the whole invocation. Zero uses defaults.TegrastatsTimeout.
	Timeout time.Duration
	// MaxLines stops the program once this many lines were captured.
	// Zero or less waits for the program to exit or time out.
	MaxLines int
}

// Lines implements Source.
func (s *CommandSource) Lines(ctx context.Context) ([]string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaults.TegrastatsTimeout
	}

	deadlineCtx, cancelDeadline := context.WithTimeout(ctx, timeout)
	defer cancelDeadline()
	runCtx, stop := context.WithCancel(deadlineCtx)
	defer stop()

	out := &lineBuffer{max: s.MaxLines, full: stop}

	cmd := exec.CommandContext(runCtx, s.Path, s.Args...)
	cmd.Stdout = out
	cmd.WaitDelay = killWaitDelay

	runErr := cmd.Run()
	lines := out.Lines()
	if len(lines) > 0 {
		return lines, nil
	}

	errCtx := map[string]any{"command": s.Path, "timeout": timeout.String()}
	if stderrors.Is(deadlineCtx.Err(), context.DeadlineExceeded) {
		return nil, errors.WrapWithContext(errors.ErrCodeTimeout, "command produced no output before timeout",
			deadlineCtx.Err(), errCtx)
	}
	if runErr != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "command failed", runErr, errCtx)
	}
	return nil, errors.NewWithContext(errors.ErrCodeUnavailable, "command produced no output", errCtx)
}

// lineBuffer splits written bytes into trimmed non-empty lines and calls
// full once max lines are held.
type lineBuffer struct {
	mu      sync.Mutex
	partial bytes.Buffer
	lines   []string
	max     int
	full    func()
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.partial.Write(p)
	for {
		data := b.partial.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		b.add(string(data[:i]))
		b.partial.Next(i + 1)
	}
	if b.max > 0 && len(b.lines) >= b.max && b.full != nil {
		b.full()
	}
	return len(p), nil
}

func (b *lineBuffer) add(line string) {
	if line = strings.TrimSpace(line); line != "" {
		b.lines = append(b.lines, line)
	}
}

// Lines returns the captured lines including a trailing unterminated one.
func (b *lineBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := append([]string(nil), b.lines...)
	if rest := strings.TrimSpace(b.partial.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
