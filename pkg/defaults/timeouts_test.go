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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Publisher
		{"PublishInterval", PublishInterval, 500 * time.Millisecond, 10 * time.Second},
		{"PublishBackoff", PublishBackoff, 1 * time.Second, 30 * time.Second},
		{"CycleTimeout", CycleTimeout, 5 * time.Second, 30 * time.Second},

		// Collector
		{"TegrastatsTimeout", TegrastatsTimeout, 1 * time.Second, 10 * time.Second},
		{"SystemInfoTimeout", SystemInfoTimeout, 500 * time.Millisecond, 10 * time.Second},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 60 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestPublisherTimingRelationships(t *testing.T) {
	if PublishBackoff <= PublishInterval {
		t.Errorf("PublishBackoff (%v) should exceed PublishInterval (%v)",
			PublishBackoff, PublishInterval)
	}

	// A cycle must be able to wait out tegrastats and the system info query.
	if TegrastatsTimeout+SystemInfoTimeout > CycleTimeout {
		t.Errorf("TegrastatsTimeout + SystemInfoTimeout (%v) should not exceed CycleTimeout (%v)",
			TegrastatsTimeout+SystemInfoTimeout, CycleTimeout)
	}
}

func TestTegrastatsTimeoutExceedsInterval(t *testing.T) {
	if TegrastatsTimeout <= time.Duration(TegrastatsIntervalMS)*time.Millisecond {
		t.Errorf("TegrastatsTimeout (%v) should exceed the tegrastats interval (%dms)",
			TegrastatsTimeout, TegrastatsIntervalMS)
	}
}

func TestServerTimeoutRelationships(t *testing.T) {
	if ServerReadTimeout > ServerWriteTimeout {
		t.Errorf("ServerReadTimeout (%v) should not exceed ServerWriteTimeout (%v)",
			ServerReadTimeout, ServerWriteTimeout)
	}

	if ServerIdleTimeout < ServerWriteTimeout {
		t.Errorf("ServerIdleTimeout (%v) should be at least ServerWriteTimeout (%v)",
			ServerIdleTimeout, ServerWriteTimeout)
	}
}
