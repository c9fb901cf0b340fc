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

// Package http serves the tracked series read-only. The store file is
// rewritten by the batch cycle, responses are therefore cached only
// briefly.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vtrack/vtrack/serde"
	"github.com/vtrack/vtrack/series"
)

const cacheTTL = time.Minute

type Server struct {
	db    serde.Fetcher
	cache *lru.Cache
}

type cacheEntry struct {
	data []byte
	when time.Time
}

// NewServer returns a server answering from db with an LRU response
// cache of cacheSize marshaled responses (0 disables caching).
func NewServer(db serde.Fetcher, cacheSize int) *Server {
	s := &Server{db: db}
	if cacheSize > 0 {
		s.cache, _ = lru.New(cacheSize)
	}
	return s
}

func (s *Server) ListenAndServe(spec string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/entities", s.entityListHandler)
	mux.HandleFunc("/series", s.seriesHandler)
	log.Printf("HTTP server listening on %s.", spec)
	return http.ListenAndServe(spec, mux)
}

func (s *Server) cached(key string) []byte {
	if s.cache == nil {
		return nil
	}
	if v, ok := s.cache.Get(key); ok {
		if e := v.(*cacheEntry); time.Now().Sub(e.when) < cacheTTL {
			return e.data
		}
		s.cache.Remove(key)
	}
	return nil
}

func (s *Server) store(key string, data []byte) {
	if s.cache != nil {
		s.cache.Add(key, &cacheEntry{data: data, when: time.Now()})
	}
}

func writeJson(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type entityListItem struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Unit      string `json:"unit"`
	Character string `json:"character"`
}

func (s *Server) entityListHandler(w http.ResponseWriter, r *http.Request) {
	if data := s.cached("entities"); data != nil {
		writeJson(w, data)
		return
	}

	entities, err := s.db.FetchEntities()
	if err != nil {
		log.Printf("entityListHandler: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	result := make([]entityListItem, 0, len(entities))
	for id, e := range entities {
		result = append(result, entityListItem{id, e.Info.Title, e.Info.Unit, e.Info.Character})
	}
	data, err := json.Marshal(result)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.store("entities", data)
	writeJson(w, data)
}

type seriesPoint struct {
	Timestamp string `json:"timestamp"`
	Views     int64  `json:"views"`
	Type      string `json:"type,omitempty"`
}

type seriesResponse struct {
	Id      string        `json:"id"`
	Title   string        `json:"title"`
	History []seriesPoint `json:"history"`
	Daily   []seriesPoint `json:"dailyHistory"`
}

func (s *Server) seriesHandler(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if data := s.cached("series:" + id); data != nil {
		writeJson(w, data)
		return
	}

	entities, err := s.db.FetchEntities()
	if err != nil {
		log.Printf("seriesHandler: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	e := entities[id]
	if e == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	resp := seriesResponse{Id: id, Title: e.Info.Title}
	for _, p := range e.Display {
		resp.History = append(resp.History, seriesPoint{formatTime(p.Time()), p.Value(), p.Kind().String()})
	}
	for _, p := range e.Daily {
		resp.Daily = append(resp.Daily, seriesPoint{formatTime(p.Time()), p.Value(), ""})
	}
	data, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.store("series:"+id, data)
	writeJson(w, data)
}

func formatTime(t time.Time) string {
	return t.In(series.JST).Format(time.RFC3339)
}
