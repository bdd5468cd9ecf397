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

// Package file reads small text files exposed by the kernel and the board
// support package.
//
// # Usage
//
// Single value sysfs attributes such as a thermal zone:
//
//	raw, err := file.NewParser(file.WithMaxSize(64)).GetFirstLine("/sys/class/thermal/thermal_zone0/temp")
//	// raw == "50031"
//
// NUL terminated device-tree properties:
//
//	model, err := file.NewParser(file.WithStripNUL(true)).GetFirstLine("/proc/device-tree/model")
//
// # Error Handling
//
// Read failures are wrapped with the file path:
//
//	_, err := p.GetLines("/nonexistent")
//	// failed to read file "/nonexistent": open /nonexistent: no such file or directory
//
// Files larger than the configured maximum or not valid UTF-8 are rejected.
//
// # Thread Safety
//
// A Parser holds only configuration and can be shared between goroutines.
package file
