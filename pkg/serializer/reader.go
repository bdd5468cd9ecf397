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

package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatFromPath determines the serialization format from a file extension:
// .json, .yaml/.yml and .table/.txt. Matching is case-insensitive and
// unknown extensions yield FormatJSON.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lowerPath, ".table"), strings.HasSuffix(lowerPath, ".txt"):
		return FormatTable
	default:
		slog.Warn("unknown file extension, defaulting to JSON", "filePath", filePath)
		return FormatJSON
	}
}

// Reader decodes JSON or YAML from an io.Reader. Table output cannot be
// read back.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
	strict bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStrict rejects fields that do not exist in the target type.
func WithStrict(strict bool) ReaderOption {
	return func(r *Reader) {
		r.strict = strict
	}
}

// NewReader creates a Reader for input. If input is an io.Closer it is
// closed by Close.
func NewReader(format Format, input io.Reader, opts ...ReaderOption) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFileReader opens filePath for decoding. Close releases the file.
func NewFileReader(format Format, filePath string, opts ...ReaderOption) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{
		format: format,
		input:  file,
		closer: file,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFileReaderAuto is NewFileReader with the format taken from the file
// extension.
func NewFileReaderAuto(filePath string, opts ...ReaderOption) (*Reader, error) {
	return NewFileReader(FormatFromPath(filePath), filePath, opts...)
}

func checkReadable(format Format) error {
	if format.IsUnknown() {
		return fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return fmt.Errorf("table format does not support deserialization")
	}
	return nil
}

// Deserialize decodes the input into v, which must be a pointer.
// An empty input leaves v untouched.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		decoder := json.NewDecoder(r.input)
		if r.strict {
			decoder.DisallowUnknownFields()
		}
		if err := decoder.Decode(v); err != nil && err != io.EOF {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil

	case FormatYAML:
		decoder := yaml.NewDecoder(r.input)
		decoder.KnownFields(r.strict)
		if err := decoder.Decode(v); err != nil && err != io.EOF {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases the underlying file, if any. It is safe to call on a nil
// Reader and more than once.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// FromFileInto decodes the file at path over the existing value of v, so
// fields absent from the file keep their current value.
func FromFileInto[T any](path string, v *T, opts ...ReaderOption) (*T, error) {
	r, err := NewFileReaderAuto(path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := r.Deserialize(v); err != nil {
		return nil, fmt.Errorf("failed to deserialize %s: %w", path, err)
	}
	return v, nil
}
