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

package telemetry

import "math"

// Round rounds v to the given number of decimal places. Halves go to the
// even neighbor, so 12.5 rounds to 12 and 0.25 to 0.2.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

// Percent returns used/total*100 rounded to one decimal, or 0 when total is 0.
func Percent(used, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(used)/float64(total)*100, 1)
}

// NewUsage builds a Usage with its percentage derived from used and total.
func NewUsage(usedMB, totalMB int) Usage {
	return Usage{
		UsedMB:  usedMB,
		TotalMB: totalMB,
		Percent: Percent(usedMB, totalMB),
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
