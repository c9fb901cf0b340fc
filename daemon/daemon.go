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

// Package daemon wires config, serde, fetcher and the series engine
// into the once-per-invocation batch cycle.
package daemon

import (
	"log"
	"os"
	"time"

	"github.com/vtrack/vtrack/fetcher"
	"github.com/vtrack/vtrack/serde"
	"github.com/vtrack/vtrack/series"
)

// Init reads and validates the config. Returns nil after logging the
// problem, mirroring how the caller is expected to just exit.
func Init(cfgPath string) *Config {

	log.Print("Vtrack starting.")

	cfg, err := readConfig(cfgPath)
	if err != nil {
		log.Printf("Unable to read config '%s': %v", cfgPath, err)
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Unable to determine working directory: %v", err)
		return nil
	}

	if err := processConfig(cfg, wd); err != nil {
		log.Printf("Error in config file %s: %v", cfgPath, err)
		return nil
	}

	setupLog(cfg.LogPath)
	return cfg
}

// NewSerDe picks the store implementation from the config: postgres
// when a connect string is set, the JSON document file otherwise.
func NewSerDe(cfg *Config) (serde.SerDe, error) {
	if cfg.DbConnectString != "" {
		return serde.InitDb(cfg.DbConnectString, cfg.DbTablePrefix)
	}
	return serde.NewFileSerDe(cfg.HistoryPath), nil
}

// Run executes one complete update cycle: load targets and store,
// fetch observations, process every entity through the engine, flush
// the store.
func Run(cfg *Config, db serde.SerDe, sf fetcher.StatsFetcher) error {

	targets, err := fetcher.LoadTargets(cfg.TargetPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d targets from %s.", len(targets), cfg.TargetPath)

	entities, err := db.FetchEntities()
	if err != nil {
		return err
	}
	log.Printf("Loaded %d entities from the store.", len(entities))

	now := timeNow().In(series.JST)
	observations := sf.FetchAll(targets, now)
	log.Printf("Fetched %d of %d readings.", len(observations), len(targets))

	Cycle(entities, observations, now, cfg.RetentionSpec())

	if err := db.FlushEntities(entities); err != nil {
		return err
	}

	log.Printf("Cycle done: %d entities flushed, %s.", len(entities), runtimeStats())
	return nil
}

// Cycle feeds each observation through the engine, creating entity
// state on first sight of an id. Entities without a fresh observation
// (failed chunk, delisted) are left untouched, never deleted.
func Cycle(entities map[string]*series.Entity, observations []fetcher.Observation, now time.Time, spec series.RetentionSpec) {
	for _, obs := range observations {
		e := entities[obs.Id]
		if e == nil {
			e = series.NewEntity(obs.Id)
			entities[obs.Id] = e
		}
		e.Info = obs.Info
		e.Process(obs.Views, obs.ObservedAt, now, spec)
	}
}
