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

package publisher

import (
	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier reports service state to a supervisor.
type Notifier interface {
	// Ready is sent once after the first snapshot is published.
	Ready() error
	// Alive is sent after every successful cycle.
	Alive() error
	// Stopping is sent when the loop exits.
	Stopping() error
}

// SystemdNotifier talks to systemd through $NOTIFY_SOCKET. Outside a
// Type=notify unit every call is a no-op.
type SystemdNotifier struct {
	watchdog bool
}

// NewSystemdNotifier returns a notifier that pings the watchdog only when
// the unit has WatchdogSec set.
func NewSystemdNotifier() *SystemdNotifier {
	interval, err := daemon.SdWatchdogEnabled(false)
	return &SystemdNotifier{watchdog: err == nil && interval > 0}
}

// Ready implements Notifier.
func (n *SystemdNotifier) Ready() error {
	_, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	return err
}

// Alive implements Notifier.
func (n *SystemdNotifier) Alive() error {
	if !n.watchdog {
		return nil
	}
	_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
	return err
}

// Stopping implements Notifier.
func (n *SystemdNotifier) Stopping() error {
	_, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	return err
}

type nopNotifier struct{}

func (nopNotifier) Ready() error    { return nil }
func (nopNotifier) Alive() error    { return nil }
func (nopNotifier) Stopping() error { return nil }
