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

package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestNewParser(t *testing.T) {
	tests := []struct {
		name                 string
		opts                 []Option
		expectedMaxSize      int
		expectedSkipComments bool
		expectedStripNUL     bool
	}{
		{
			name:                 "default options",
			expectedMaxSize:      1 << 20,
			expectedSkipComments: true,
		},
		{
			name: "all options",
			opts: []Option{
				WithMaxSize(2048),
				WithSkipComments(false),
				WithStripNUL(true),
			},
			expectedMaxSize:      2048,
			expectedSkipComments: false,
			expectedStripNUL:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.opts...)
			if p.maxSize != tt.expectedMaxSize {
				t.Errorf("maxSize = %d, want %d", p.maxSize, tt.expectedMaxSize)
			}
			if p.skipComments != tt.expectedSkipComments {
				t.Errorf("skipComments = %v, want %v", p.skipComments, tt.expectedSkipComments)
			}
			if p.stripNUL != tt.expectedStripNUL {
				t.Errorf("stripNUL = %v, want %v", p.stripNUL, tt.expectedStripNUL)
			}
		})
	}
}

func TestGetLines_Comments(t *testing.T) {
	path := writeTemp(t, "release", "# R36 (release), REVISION: 4.7\nsecond\n")

	lines, err := NewParser().GetLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "second" {
		t.Errorf("lines = %v, want [second]", lines)
	}

	line, err := NewParser(WithSkipComments(false)).GetFirstLine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "# R36 (release), REVISION: 4.7" {
		t.Errorf("line = %q", line)
	}
}

func TestGetFirstLine_Empty(t *testing.T) {
	path := writeTemp(t, "empty", "\n\n")

	if _, err := NewParser().GetFirstLine(path); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestGetLines_StripNUL(t *testing.T) {
	path := writeTemp(t, "model", "NVIDIA Jetson Orin Nano Developer Kit\x00")

	line, err := NewParser(WithStripNUL(true)).GetFirstLine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "NVIDIA Jetson Orin Nano Developer Kit" {
		t.Errorf("line = %q", line)
	}
}

func TestGetLines_Errors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		if _, err := NewParser().GetLines(""); err == nil {
			t.Error("expected error for empty path")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewParser().GetLines(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("too large", func(t *testing.T) {
		path := writeTemp(t, "big", strings.Repeat("x", 64))
		if _, err := NewParser(WithMaxSize(16)).GetLines(path); err == nil {
			t.Error("expected error for oversized file")
		}
	})

	t.Run("invalid utf8", func(t *testing.T) {
		path := writeTemp(t, "bin", string([]byte{0xff, 0xfe, 0xfd}))
		if _, err := NewParser().GetLines(path); err == nil {
			t.Error("expected error for invalid UTF-8")
		}
	})
}
