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

// Info is passthrough metadata supplied by the collector. The engine
// never validates it, absent fields stay empty.
type Info struct {
	Title      string
	Thumbnail  string
	UploadDate string
	Unit       string
	Character  string
}

// Entity owns the complete time-series state of one tracked counter:
// the authoritative raw history and daily archive plus the derived
// display series. Created on first observation, updated every cycle,
// never deleted here.
type Entity struct {
	Id      string
	Info    Info
	Raw     History
	Display DisplaySeries
	Daily   DailyArchive
}

func NewEntity(id string) *Entity {
	return &Entity{Id: id}
}

// RetentionSpec is the set of retention policy knobs. The observed
// deployment variants disagree on thresholds (300 vs 500 samples, 30
// vs 35 days), so none of them is hard-coded.
type RetentionSpec struct {
	// DailyArchive enables the separate daily tier. When off,
	// CollapseAfter degrades old raw samples in place instead.
	DailyArchive bool

	// MaxSamples caps the raw history by count (0 = no cap).
	MaxSamples int

	// MaxAge caps the raw history by age (0 = no cap).
	MaxAge time.Duration

	// CollapseAfter is the single-tier retention window used when
	// DailyArchive is off (0 = keep everything).
	CollapseAfter time.Duration

	// MaxDisplayPoints caps the regenerated display series,
	// keeping the most recent points (0 = unlimited).
	MaxDisplayPoints int
}

// DefaultRetention mirrors the most common deployment variant.
func DefaultRetention() RetentionSpec {
	return RetentionSpec{
		DailyArchive:  true,
		MaxSamples:    500,
		CollapseAfter: 35 * 24 * time.Hour,
	}
}

// Process runs one update cycle: append the new observation, archive
// finished days, prune the raw store, then regenerate the display
// series from what remains. Archival runs before pruning so that
// samples are never discarded before their day is captured.
func (e *Entity) Process(value int64, observedAt, now time.Time, spec RetentionSpec) {
	e.Raw = e.Raw.Append(observedAt, value)
	e.Raw.SortByTime()

	if spec.DailyArchive {
		e.Daily = UpdateDaily(e.Daily, e.Raw)
	} else if spec.CollapseAfter > 0 {
		e.Raw = CollapseOlderThan(e.Raw, now.Add(-spec.CollapseAfter))
	}

	if spec.MaxAge > 0 {
		e.Raw = e.Raw.PruneOlderThan(now.Add(-spec.MaxAge))
	}
	e.Raw = e.Raw.PruneCount(spec.MaxSamples)

	e.Display = e.regenerate(now, spec.MaxDisplayPoints)
}

// Regenerate recomputes the display series without appending a new
// observation. Used when rebuilding derived data after a migration.
func (e *Entity) Regenerate(now time.Time, spec RetentionSpec) {
	e.Raw.SortByTime()
	e.Display = e.regenerate(now, spec.MaxDisplayPoints)
}

func (e *Entity) regenerate(now time.Time, maxPoints int) DisplaySeries {
	display := Resample(e.Raw, now)
	if len(e.Raw) > 0 {
		display = append(display, CurrentPoint(e.Raw, now))
	}
	if maxPoints > 0 && len(display) > maxPoints {
		display = display[len(display)-maxPoints:]
	}
	return display
}
