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
	"sync"

	"github.com/vtrack/vtrack/series"
)

type memSerDe struct {
	*sync.RWMutex
	entities map[string]*series.Entity
}

// Returns a SerDe which keeps everything in memory. Mostly useful in
// tests.
func NewMemSerDe() SerDe {
	return &memSerDe{RWMutex: &sync.RWMutex{}, entities: map[string]*series.Entity{}}
}

func (m *memSerDe) FetchEntities() (map[string]*series.Entity, error) {
	m.RLock()
	defer m.RUnlock()
	result := make(map[string]*series.Entity, len(m.entities))
	for id, e := range m.entities {
		result[id] = e
	}
	return result, nil
}

func (m *memSerDe) FlushEntities(entities map[string]*series.Entity) error {
	m.Lock()
	defer m.Unlock()
	for id, e := range entities {
		m.entities[id] = e
	}
	return nil
}
