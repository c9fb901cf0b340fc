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
	"sort"
	"time"
)

// DailyPoint is one archived value at a JST calendar-day midnight.
// Produced once, never recomputed.
type DailyPoint struct {
	ts    time.Time
	value int64
}

func NewDailyPoint(ts time.Time, value int64) DailyPoint {
	if value < 0 {
		value = 0
	}
	return DailyPoint{ts: ts.In(JST), value: value}
}

func (p DailyPoint) Time() time.Time { return p.ts }
func (p DailyPoint) Value() int64    { return p.value }

// DailyArchive is the append-only long-range tier: one point per
// calendar day, monotonically extended, never truncated here.
type DailyArchive []DailyPoint

// dayStart returns midnight of the JST calendar day containing t.
func dayStart(t time.Time) time.Time {
	t = t.In(JST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, JST)
}

const dayKeyFormat = "2006-01-02"

// UpdateDaily appends archive points for every JST midnight between
// the day after the earliest raw sample and the day of the latest
// sample (inclusive) that is not archived yet. Values come from the
// same bracketing interpolation as the display grid; midnights
// outside raw coverage are left unarchived and will be retried on the
// next cycle if data backfills. Re-running with unchanged inputs is a
// no-op.
func UpdateDaily(daily DailyArchive, h History) DailyArchive {
	if len(h) == 0 {
		return daily
	}

	archived := make(map[string]bool, len(daily))
	for _, p := range daily {
		archived[p.ts.In(JST).Format(dayKeyFormat)] = true
	}

	first := dayStart(h[0].ts).AddDate(0, 0, 1)
	last := dayStart(h[len(h)-1].ts)

	added := false
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if archived[d.Format(dayKeyFormat)] {
			continue
		}
		if v, ok := interpolate(h, d); ok {
			daily = append(daily, DailyPoint{ts: d, value: v})
			added = true
		}
	}
	if added {
		sort.SliceStable(daily, func(i, j int) bool { return daily[i].ts.Before(daily[j].ts) })
	}
	return daily
}

// CollapseOlderThan is the single-tier retention variant used when no
// separate daily archive exists: samples older than cutoff collapse
// to the chronologically first sample of each JST calendar day, while
// samples inside the window stay untouched. Only actually-observed
// samples survive, nothing is interpolated, and chronological order
// is preserved.
func CollapseOlderThan(h History, cutoff time.Time) History {
	result := h[:0]
	lastDay := ""
	for _, s := range h {
		if !s.ts.Before(cutoff) {
			result = append(result, s)
			continue
		}
		day := s.ts.In(JST).Format(dayKeyFormat)
		if day == lastDay {
			continue
		}
		lastDay = day
		result = append(result, s)
	}
	return result
}
