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

// Package series implements the resampling, extrapolation and
// retention engine for ever-increasing counters observed at irregular
// intervals. All grid alignment and calendar arithmetic happens in
// JST, which is the fixed time zone of the data set.
package series

import (
	"sort"
	"time"
)

// JST is the time zone in which grid boundaries and calendar days are
// computed. Stored instants carry this offset so that both the wall
// time and the epoch value survive a round trip through storage.
var JST = time.FixedZone("JST", 9*60*60)

// Sample is a single observed counter reading. Immutable once
// recorded.
type Sample struct {
	ts    time.Time
	value int64
}

// NewSample returns a Sample. A negative value means the upstream hid
// the statistic and coerces to zero.
func NewSample(ts time.Time, value int64) Sample {
	if value < 0 {
		value = 0
	}
	return Sample{ts: ts.In(JST), value: value}
}

func (s Sample) Time() time.Time { return s.ts }
func (s Sample) Value() int64    { return s.value }

// History is the time-ordered raw sample sequence of one entity.
// Appends normally arrive in chronological order ("now"), but callers
// that insert out of order must SortByTime before any resampling.
type History []Sample

// Append adds a sample. Negative values coerce to zero.
func (h History) Append(ts time.Time, value int64) History {
	return append(h, NewSample(ts, value))
}

// SortByTime sorts the history ascending by timestamp. The sort is
// stable so that duplicate timestamps keep their insertion order.
func (h History) SortByTime() {
	sort.SliceStable(h, func(i, j int) bool { return h[i].ts.Before(h[j].ts) })
}

// PruneCount retains only the most recent max samples. Zero or
// negative max means no limit.
func (h History) PruneCount(max int) History {
	if max <= 0 || len(h) <= max {
		return h
	}
	return h[len(h)-max:]
}

// PruneOlderThan removes samples with timestamp at or before cutoff.
func (h History) PruneOlderThan(cutoff time.Time) History {
	result := h[:0]
	for _, s := range h {
		if s.ts.After(cutoff) {
			result = append(result, s)
		}
	}
	return result
}

// Latest returns the last sample. Callers must check ok on an empty
// history.
func (h History) Latest() (Sample, bool) {
	if len(h) == 0 {
		return Sample{}, false
	}
	return h[len(h)-1], true
}
