//
// Copyright 2017 Gregory Trubetskoy. All Rights Reserved.
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

// Package fetcher pulls counter readings for the tracked entities
// from the upstream statistics API. The engine itself never touches
// the network, everything network-ish lives here.
package fetcher

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/vtrack/vtrack/series"
)

// Target is one entry of the master target list: the entity id plus
// free-form classification fields which pass through to the store
// untouched.
type Target struct {
	Id        string `json:"id"`
	Unit      string `json:"unit"`
	Character string `json:"character"`
}

// LoadTargets reads the JSON target list.
func LoadTargets(path string) ([]Target, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var targets []Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// Observation is one fetched counter reading with its passthrough
// metadata, ready for the engine.
type Observation struct {
	Id         string
	Views      int64
	ObservedAt time.Time
	Info       series.Info
}

// StatsFetcher fetches current readings for a target list. A partial
// result is normal: targets whose chunk failed are simply absent.
type StatsFetcher interface {
	FetchAll(targets []Target, now time.Time) []Observation
}
