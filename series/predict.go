//
// Copyright 2016 Gregory Trubetskoy. All Rights Reserved.
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

package series

import (
	"time"
)

// predictWindow is how many of the most recent raw samples
// participate in the velocity estimate.
const predictWindow = 3

// weightedVelocity computes the recency-weighted average velocity
// (counts per second) over the consecutive pairs of the last
// predictWindow samples. Pair i (0-based, oldest first) carries
// weight 2*(i+1), so the most recent interval always dominates.
// Pairs with non-positive elapsed time contribute nothing.
func weightedVelocity(h History) float64 {
	recent := h
	if len(recent) > predictWindow {
		recent = recent[len(recent)-predictWindow:]
	}

	var sum, weights float64
	for i := 0; i < len(recent)-1; i++ {
		p1, p2 := recent[i], recent[i+1]
		elapsed := p2.ts.Sub(p1.ts).Seconds()
		if elapsed <= 0 {
			continue
		}
		w := float64(2 * (i + 1))
		sum += w * float64(p2.value-p1.value) / elapsed
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// PredictCurrent extrapolates the counter value at now from the tail
// of the raw history. The result never falls below the last observed
// value (the counter only grows), and a last sample at or after now
// is returned unchanged rather than extrapolated backward.
func PredictCurrent(h History, now time.Time) int64 {
	last, ok := h.Latest()
	if !ok {
		return 0
	}
	if len(h) == 1 || !now.After(last.ts) {
		return last.value
	}

	elapsed := now.Sub(last.ts).Seconds()
	predicted := last.value + int64(weightedVelocity(h)*elapsed)
	if predicted < last.value {
		predicted = last.value
	}
	return predicted
}

// CurrentPoint wraps PredictCurrent into the single CURRENT display
// point, timestamped at now regardless of grid alignment.
func CurrentPoint(h History, now time.Time) GridPoint {
	return GridPoint{ts: now.In(JST), value: PredictCurrent(h, now), kind: Current}
}
