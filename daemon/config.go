//
// Copyright 2015 Gregory Trubetskoy. All Rights Reserved.
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

package daemon

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/vtrack/vtrack/misc"
	"github.com/vtrack/vtrack/series"
)

type Config struct { // Needs to be exported for TOML to work
	TargetPath       string   `toml:"target-file"`
	HistoryPath      string   `toml:"history-file"`
	DbConnectString  string   `toml:"db-connect-string"`
	DbTablePrefix    string   `toml:"db-table-prefix"`
	ApiKey           string   `toml:"api-key"`
	FetchRateLimit   float64  `toml:"fetch-rate-limit"`
	LogPath          string   `toml:"log-file"`
	HttpListenSpec   string   `toml:"http-listen-spec"`
	DailyArchive     bool     `toml:"daily-archive"`
	MaxRawSamples    int      `toml:"max-raw-samples"`
	MaxRawAge        duration `toml:"max-raw-age"`
	CollapseAfter    duration `toml:"collapse-after"`
	MaxDisplayPoints int      `toml:"max-display-points"`
}

type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = misc.BetterParseDuration(string(text))
	return err
}

var readConfig = func(cfgPath string) (*Config, error) {
	cfg := &Config{ // defaults for the knobs TOML zero values can't express
		DailyArchive:     true,
		MaxRawSamples:    500,
		CollapseAfter:    duration{35 * 24 * time.Hour},
		MaxDisplayPoints: 100,
	}
	_, err := toml.DecodeFile(cfgPath, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// RetentionSpec converts the config knobs to the engine policy.
func (c *Config) RetentionSpec() series.RetentionSpec {
	return series.RetentionSpec{
		DailyArchive:     c.DailyArchive,
		MaxSamples:       c.MaxRawSamples,
		MaxAge:           c.MaxRawAge.Duration,
		CollapseAfter:    c.CollapseAfter.Duration,
		MaxDisplayPoints: c.MaxDisplayPoints,
	}
}

func (c *Config) processTargetPath(wd string) error {
	if c.TargetPath == "" {
		return fmt.Errorf("target-file setting empty")
	}
	if !filepath.IsAbs(c.TargetPath) {
		c.TargetPath = filepath.Join(wd, c.TargetPath)
	}
	return nil
}

func (c *Config) processHistoryPath(wd string) error {
	if c.DbConnectString != "" {
		return nil // postgres store, no file needed
	}
	if c.HistoryPath == "" {
		return fmt.Errorf("history-file setting empty (and no db-connect-string)")
	}
	if !filepath.IsAbs(c.HistoryPath) {
		c.HistoryPath = filepath.Join(wd, c.HistoryPath)
	}
	return nil
}

func (c *Config) processDbConnectString() error {
	if os.Getenv("VTRACK_DB_CONNECT") != "" {
		c.DbConnectString = os.Getenv("VTRACK_DB_CONNECT")
	}
	return nil
}

func (c *Config) processApiKey() error {
	if os.Getenv("VTRACK_API_KEY") != "" {
		c.ApiKey = os.Getenv("VTRACK_API_KEY")
	}
	if c.ApiKey == "" {
		return fmt.Errorf("api-key empty (also settable via VTRACK_API_KEY)")
	}
	return nil
}

func (c *Config) processRetention() error {
	if c.MaxRawSamples <= 0 && c.MaxRawAge.Duration <= 0 {
		log.Printf("No raw retention cap configured, raw history is unbounded.")
	}
	if c.DailyArchive {
		log.Printf("Old raw data degrades into the daily archive.")
	} else if c.CollapseAfter.Duration > 0 {
		log.Printf("No daily archive, raw samples older than %v collapse to one per day.", c.CollapseAfter.Duration)
	}
	return nil
}

var processConfig = func(c *Config, wd string) error {

	if err := c.processTargetPath(wd); err != nil {
		return err
	}
	if err := c.processDbConnectString(); err != nil {
		return err
	}
	if err := c.processHistoryPath(wd); err != nil {
		return err
	}
	if err := c.processApiKey(); err != nil {
		return err
	}
	if err := c.processRetention(); err != nil {
		return err
	}
	return nil
}
