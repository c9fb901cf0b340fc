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

// GridStep is the display grid resolution. Every FIXED point sits on
// a multiple of GridStep past the hour (:00 or :30 JST).
const GridStep = 30 * time.Minute

// PointKind tells a fixed (interpolated, on-grid) display point from
// the single predicted current point appended after it.
type PointKind int

const (
	Fixed PointKind = iota
	Current
)

func (k PointKind) String() string {
	if k == Current {
		return "predicted"
	}
	return "interpolated"
}

// GridPoint is one point of the display series.
type GridPoint struct {
	ts    time.Time
	value int64
	kind  PointKind
}

// NewGridPoint is used when reconstructing a stored display series.
func NewGridPoint(ts time.Time, value int64, kind PointKind) GridPoint {
	if value < 0 {
		value = 0
	}
	return GridPoint{ts: ts.In(JST), value: value, kind: kind}
}

func (p GridPoint) Time() time.Time { return p.ts }
func (p GridPoint) Value() int64    { return p.value }
func (p GridPoint) Kind() PointKind { return p.kind }

// DisplaySeries is fully regenerated from the raw history every
// cycle, it is never patched incrementally.
type DisplaySeries []GridPoint

// alignUp returns the first grid boundary at or after t. An exact
// boundary passes through unchanged.
func alignUp(t time.Time, step time.Duration) time.Time {
	t = t.In(JST)
	aligned := t.Truncate(step)
	if aligned.Equal(t) {
		return t
	}
	return aligned.Add(step)
}

// interpolate computes the value at t by linear interpolation between
// the two samples bracketing t: the latest sample at or before t and
// the earliest sample after t. The result is truncated to integer.
// ok is false when no bracketing pair exists, in which case the
// caller must emit nothing rather than extrapolate.
func interpolate(h History, t time.Time) (int64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	// Index of the earliest sample at or after t.
	hi := -1
	for i, s := range h {
		if !s.ts.Before(t) {
			hi = i
			break
		}
	}
	if hi < 0 { // no sample at or after t
		return 0, false
	}
	if h[hi].ts.Equal(t) { // exact hit, interpolation degenerates
		return h[hi].value, true
	}
	if hi == 0 { // t before the first sample
		return 0, false
	}
	p1, p2 := h[hi-1], h[hi]
	if !p2.ts.After(p1.ts) { // duplicate timestamps
		return p1.value, true
	}
	ratio := float64(t.Sub(p1.ts)) / float64(p2.ts.Sub(p1.ts))
	return p1.value + int64(float64(p2.value-p1.value)*ratio), true
}

// Resample converts a sorted raw history into the FIXED portion of
// the display series: one point per half-hour boundary from the first
// boundary at or after the earliest sample up to now. Boundaries
// without a bracketing sample pair are omitted, so the series never
// contains a point outside the observed range.
func Resample(h History, now time.Time) DisplaySeries {
	if len(h) == 0 {
		return nil
	}

	var result DisplaySeries
	for t := alignUp(h[0].ts, GridStep); !t.After(now.In(JST)); t = t.Add(GridStep) {
		if v, ok := interpolate(h, t); ok {
			result = append(result, GridPoint{ts: t, value: v, kind: Fixed})
		}
	}
	return result
}
