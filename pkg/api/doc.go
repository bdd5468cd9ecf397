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

// Package api exposes the snapshot store over HTTP.
//
// Routes:
//
//	GET /api/data    {"data": <metrics>, "system": <system info>, "timestamp": <seconds>}
//	GET /api/status  {"status": "running", "uptime": "...", "last_update": "<RFC3339>|Never"}
//	GET /metrics     Prometheus exposition
//	GET /            index.html from the static directory (optional)
//	GET /static/...  other dashboard assets, cached for an hour (optional)
//
// Handlers only read the store, so every response carries a complete
// snapshot even while collection is failing. The routes are registered
// with pkg/server, which adds CORS, rate limiting and request IDs.
package api
