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
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/vtrack/vtrack/series"
)

type fileSerDe struct {
	path string
}

// NewFileSerDe returns a SerDe backed by a single JSON document file
// keyed by entity id. A missing file is an empty store, not an error.
func NewFileSerDe(path string) SerDe {
	return &fileSerDe{path: path}
}

func (f *fileSerDe) FetchEntities() (map[string]*series.Entity, error) {
	data, err := ioutil.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]*series.Entity{}, nil
	}
	if err != nil {
		return nil, err
	}

	docs := map[string]*entityDoc{}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}

	result := make(map[string]*series.Entity, len(docs))
	for id, doc := range docs {
		result[id] = decodeEntity(id, doc)
	}
	return result, nil
}

// FlushEntities writes the whole store to a temporary file and
// renames it into place, so a crash mid-write never clobbers the
// previous document.
func (f *fileSerDe) FlushEntities(entities map[string]*series.Entity) error {
	docs := make(map[string]*entityDoc, len(entities))
	for id, e := range entities {
		docs[id] = encodeEntity(e)
	}

	// encoding/json sorts map keys, the output is deterministic.
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}

	dir, base := filepath.Split(f.path)
	tmp, err := ioutil.TempFile(dir, base+".tmp")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
