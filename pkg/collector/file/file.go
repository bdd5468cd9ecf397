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
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small text files such as a sysfs attribute or a board
// release file.
type Parser struct {
	maxSize      int
	skipComments bool
	stripNUL     bool
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether lines starting with '#' are dropped.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithStripNUL removes NUL bytes before splitting. Device-tree properties
// such as /proc/device-tree/model are NUL terminated.
func WithStripNUL(strip bool) Option {
	return func(p *Parser) {
		p.stripNUL = strip
	}
}

// NewParser creates a new file parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxSize:      1 << 20,
		skipComments: true,
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetFirstLine returns the first non-empty line of the file.
func (p *Parser) GetFirstLine(path string) (string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("file %q is empty", path)
	}
	return lines[0], nil
}

// GetLines reads the file and returns its trimmed non-empty lines.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	// sysfs reports a size of 4096 regardless of content, so the limit is
	// checked after reading.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	content := string(b)
	if p.stripNUL {
		content = strings.ReplaceAll(content, "\x00", "")
	}

	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	parts := strings.Split(content, "\n")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}

	return result, nil
}
