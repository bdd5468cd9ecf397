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

// Package serializer encodes and decodes jetsond values.
//
// # Writing
//
// A Writer renders any value as indented JSON, YAML (gopkg.in/yaml.v3) or a
// FIELD/VALUE table whose keys are the dotted json names of the value:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, metrics); err != nil {
//	    return err
//	}
//
// prints rows such as cpu.cores.[0].usage_percent and memory.used_mb.
//
// # Reading
//
// Reader decodes JSON or YAML. FromFileInto overlays a file onto an
// existing value, which is how configuration defaults are kept for keys
// the file omits:
//
//	cfg := config.Default()
//	if _, err := serializer.FromFileInto(path, &cfg, serializer.WithStrict(true)); err != nil {
//	    return err
//	}
//
// # HTTP
//
// RespondJSON encodes into a buffer before writing the status line, so an
// encoding failure yields a 500 instead of a truncated 200.
package serializer
