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
	"testing"
	"time"
)

var testBase = time.Date(2024, time.March, 10, 8, 0, 0, 0, JST)

// at returns testBase + seconds.
func at(sec int) time.Time {
	return testBase.Add(time.Duration(sec) * time.Second)
}

func TestNewSample_CoercesNegative(t *testing.T) {
	s := NewSample(at(0), -5)
	if s.Value() != 0 {
		t.Errorf("NewSample(-5).Value() = %d, want 0", s.Value())
	}
}

func TestHistory_PruneCount(t *testing.T) {
	var h History
	for i := 0; i < 600; i++ {
		h = h.Append(at(i), int64(i))
	}
	h = h.PruneCount(500)
	if len(h) != 500 {
		t.Fatalf("len after PruneCount(500) = %d, want 500", len(h))
	}
	// Most recent 500, original order
	for i, s := range h {
		if s.Value() != int64(i+100) {
			t.Errorf("h[%d].Value() = %d, want %d", i, s.Value(), i+100)
		}
	}

	if got := h.PruneCount(0); len(got) != 500 {
		t.Errorf("PruneCount(0) must be a no-op, got len %d", len(got))
	}
}

func TestHistory_PruneOlderThan(t *testing.T) {
	h := History{}.Append(at(0), 1).Append(at(100), 2).Append(at(200), 3)
	h = h.PruneOlderThan(at(100)) // at or before cutoff goes
	if len(h) != 1 || h[0].Value() != 3 {
		t.Errorf("PruneOlderThan left %v, want only the at(200) sample", h)
	}
}

func TestHistory_SortByTime(t *testing.T) {
	h := History{}.Append(at(100), 2).Append(at(0), 1).Append(at(200), 3)
	h.SortByTime()
	for i := 1; i < len(h); i++ {
		if h[i].Time().Before(h[i-1].Time()) {
			t.Errorf("history not sorted at %d", i)
		}
	}
}

func TestHistory_Latest(t *testing.T) {
	var h History
	if _, ok := h.Latest(); ok {
		t.Errorf("Latest() on empty history returned ok")
	}
	h = h.Append(at(0), 1).Append(at(10), 2)
	if last, _ := h.Latest(); last.Value() != 2 {
		t.Errorf("Latest().Value() = %d, want 2", last.Value())
	}
}
