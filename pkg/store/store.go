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

// Package store holds the most recent telemetry snapshot for concurrent
// readers.
//
// The publisher is the only writer. Each Write swaps in a fully built
// snapshot through an atomic pointer, so a reader sees either the previous
// snapshot or the next one and never a mix. Readers receive deep copies.
package store

import (
	"sync/atomic"
	"time"

	"github.com/NVIDIA/jetson-dashboard/pkg/telemetry"
)

// Store is safe for concurrent use.
type Store struct {
	current atomic.Pointer[telemetry.Snapshot]
	written atomic.Bool
}

// New returns a Store holding the default snapshot.
func New() *Store {
	s := &Store{}
	initial := telemetry.NewSnapshot()
	s.current.Store(&initial)
	return s
}

// Write replaces the current snapshot. The snapshot is copied, so the
// caller may reuse snap afterwards.
func (s *Store) Write(snap telemetry.Snapshot) {
	c := snap.Clone()
	s.current.Store(&c)
	s.written.Store(true)
}

// Publish builds a snapshot from m and info stamped with producedAt and
// writes it.
func (s *Store) Publish(m telemetry.Metrics, info telemetry.SystemInfo, producedAt time.Time) {
	s.Write(telemetry.Snapshot{
		Metrics:    m,
		System:     info,
		ProducedAt: producedAt,
	})
}

// Read returns a copy of the current snapshot. Before the first Write it
// is the default snapshot with a zero ProducedAt.
func (s *Store) Read() telemetry.Snapshot {
	return s.current.Load().Clone()
}

// Metrics returns a copy of the current metrics record.
func (s *Store) Metrics() telemetry.Metrics {
	return s.current.Load().Metrics.Clone()
}

// SystemInfo returns the current system info.
func (s *Store) SystemInfo() telemetry.SystemInfo {
	return s.current.Load().System
}

// HasData reports whether at least one snapshot has been written.
func (s *Store) HasData() bool {
	return s.written.Load()
}
