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

// Package serde knows how to load and save the aggregate entity store
// in some storage. The persisted form is one JSON-like document per
// entity, timestamps serialized as ISO-8601 with an explicit +09:00
// offset. The raw history and daily archive are authoritative, the
// display series is derived and may be regenerated at any time.
package serde

import (
	"time"

	"github.com/vtrack/vtrack/series"
)

// Fetcher loads the entire entity store.
type Fetcher interface {
	FetchEntities() (map[string]*series.Entity, error)
}

// Flusher saves the entire entity store.
type Flusher interface {
	FlushEntities(map[string]*series.Entity) error
}

// This thing knows how to load/save the entity store in some storage.
type SerDe interface {
	Fetcher
	Flusher
}

// Document shapes. RawHistoryLegacy carries the snake_case key some
// older documents used; migration.go resolves it.

type infoDoc struct {
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	UploadDate string `json:"uploadDate"`
	Unit       string `json:"unit"`
	Character  string `json:"character"`
}

type pointDoc struct {
	Timestamp string `json:"timestamp"`
	Views     int64  `json:"views"`
}

type gridDoc struct {
	Timestamp string `json:"timestamp"`
	Views     int64  `json:"views"`
	Type      string `json:"type,omitempty"`
}

type entityDoc struct {
	Info             infoDoc    `json:"info"`
	RawHistory       []pointDoc `json:"rawHistory,omitempty"`
	RawHistoryLegacy []pointDoc `json:"raw_history,omitempty"`
	History          []gridDoc  `json:"history,omitempty"`
	DailyHistory     []pointDoc `json:"dailyHistory,omitempty"`
}

func formatTime(t time.Time) string {
	return t.In(series.JST).Format(time.RFC3339)
}

// parseTime returns ok == false for a malformed timestamp; the caller
// drops the point rather than aborting the load.
func parseTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(series.JST), true
}

func encodeEntity(e *series.Entity) *entityDoc {
	doc := &entityDoc{
		Info: infoDoc{
			Title:      e.Info.Title,
			Thumbnail:  e.Info.Thumbnail,
			UploadDate: e.Info.UploadDate,
			Unit:       e.Info.Unit,
			Character:  e.Info.Character,
		},
	}
	for _, s := range e.Raw {
		doc.RawHistory = append(doc.RawHistory, pointDoc{formatTime(s.Time()), s.Value()})
	}
	for _, p := range e.Display {
		doc.History = append(doc.History, gridDoc{formatTime(p.Time()), p.Value(), p.Kind().String()})
	}
	for _, p := range e.Daily {
		doc.DailyHistory = append(doc.DailyHistory, pointDoc{formatTime(p.Time()), p.Value()})
	}
	return doc
}

func decodeEntity(id string, doc *entityDoc) *series.Entity {
	normalizeDoc(doc)

	e := series.NewEntity(id)
	e.Info = series.Info{
		Title:      doc.Info.Title,
		Thumbnail:  doc.Info.Thumbnail,
		UploadDate: doc.Info.UploadDate,
		Unit:       doc.Info.Unit,
		Character:  doc.Info.Character,
	}
	for _, p := range doc.RawHistory {
		if ts, ok := parseTime(p.Timestamp); ok {
			e.Raw = e.Raw.Append(ts, p.Views)
		}
	}
	e.Raw.SortByTime()
	for _, p := range doc.History {
		if ts, ok := parseTime(p.Timestamp); ok {
			kind := series.Fixed
			if p.Type == series.Current.String() {
				kind = series.Current
			}
			e.Display = append(e.Display, series.NewGridPoint(ts, p.Views, kind))
		}
	}
	for _, p := range doc.DailyHistory {
		if ts, ok := parseTime(p.Timestamp); ok {
			e.Daily = append(e.Daily, series.NewDailyPoint(ts, p.Views))
		}
	}
	return e
}
