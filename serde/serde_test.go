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

package serde

import (
	"strings"
	"testing"
	"time"

	"github.com/vtrack/vtrack/series"
)

var testTime = time.Date(2024, time.March, 10, 8, 0, 0, 0, series.JST)

func TestFormatTime_JstOffset(t *testing.T) {
	s := formatTime(testTime.UTC())
	if !strings.HasSuffix(s, "+09:00") {
		t.Errorf("formatTime = %q, want an explicit +09:00 offset", s)
	}
	if s != "2024-03-10T08:00:00+09:00" {
		t.Errorf("formatTime = %q", s)
	}
}

func TestParseTime_MalformedDropped(t *testing.T) {
	if _, ok := parseTime("not-a-time"); ok {
		t.Errorf("parseTime accepted garbage")
	}
	if ts, ok := parseTime("2024-03-10T08:00:00+09:00"); !ok || !ts.Equal(testTime) {
		t.Errorf("parseTime = %v, %v; want %v, true", ts, ok, testTime)
	}
}

func TestEncodeDecodeEntity(t *testing.T) {
	e := series.NewEntity("abc")
	e.Info = series.Info{Title: "t", Thumbnail: "th", UploadDate: "2024-01-01", Unit: "u", Character: "c"}
	e.Raw = e.Raw.Append(testTime, 100).Append(testTime.Add(30*time.Minute), 200)
	e.Daily = series.UpdateDaily(nil, e.Raw)
	e.Regenerate(testTime.Add(time.Hour), series.RetentionSpec{})

	got := decodeEntity("abc", encodeEntity(e))

	if got.Info != e.Info {
		t.Errorf("info round trip: got %+v, want %+v", got.Info, e.Info)
	}
	if len(got.Raw) != len(e.Raw) {
		t.Fatalf("raw round trip: %d samples, want %d", len(got.Raw), len(e.Raw))
	}
	for i := range e.Raw {
		if !got.Raw[i].Time().Equal(e.Raw[i].Time()) || got.Raw[i].Value() != e.Raw[i].Value() {
			t.Errorf("raw[%d] = (%v, %d), want (%v, %d)", i,
				got.Raw[i].Time(), got.Raw[i].Value(), e.Raw[i].Time(), e.Raw[i].Value())
		}
	}
	if len(got.Display) != len(e.Display) {
		t.Fatalf("display round trip: %d points, want %d", len(got.Display), len(e.Display))
	}
	last := got.Display[len(got.Display)-1]
	if last.Kind() != series.Current {
		t.Errorf("last display point kind lost in round trip: %v", last.Kind())
	}
}

func TestDecodeEntity_MalformedTimestampSkipped(t *testing.T) {
	doc := &entityDoc{
		RawHistory: []pointDoc{
			{"2024-03-10T08:00:00+09:00", 100},
			{"garbage", 150},
			{"2024-03-10T09:00:00+09:00", 200},
		},
	}
	e := decodeEntity("abc", doc)
	if len(e.Raw) != 2 {
		t.Errorf("decode kept %d samples, want 2 (malformed dropped)", len(e.Raw))
	}
}

func TestNormalizeDoc_SnakeCase(t *testing.T) {
	doc := &entityDoc{
		RawHistoryLegacy: []pointDoc{{"2024-03-10T08:00:00+09:00", 100}},
	}
	normalizeDoc(doc)
	if len(doc.RawHistory) != 1 || doc.RawHistory[0].Views != 100 {
		t.Errorf("raw_history not adopted: %+v", doc)
	}
	if doc.RawHistoryLegacy != nil {
		t.Errorf("legacy field survived normalization")
	}
}

func TestNormalizeDoc_FlatHistoryAdoptedOnce(t *testing.T) {
	doc := &entityDoc{
		History: []gridDoc{
			{"2024-03-10T08:00:00+09:00", 100, "interpolated"},
			{"2024-03-10T08:30:00+09:00", 150, "interpolated"},
			{"2024-03-10T08:45:00+09:00", 170, "predicted"},
		},
	}
	normalizeDoc(doc)
	if len(doc.RawHistory) != 2 {
		t.Fatalf("adopted %d points, want 2 (predicted excluded)", len(doc.RawHistory))
	}
	if doc.History != nil {
		t.Errorf("derived history kept after adoption, will not regenerate cleanly")
	}

	// A document which does have a raw store keeps it, history is
	// never adopted twice.
	doc2 := &entityDoc{
		RawHistory: []pointDoc{{"2024-03-10T08:00:00+09:00", 100}},
		History:    []gridDoc{{"2024-03-10T08:30:00+09:00", 999, "interpolated"}},
	}
	normalizeDoc(doc2)
	if len(doc2.RawHistory) != 1 || doc2.RawHistory[0].Views != 100 {
		t.Errorf("raw store clobbered by legacy adoption: %+v", doc2.RawHistory)
	}
}
