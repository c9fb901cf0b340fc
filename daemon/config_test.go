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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "vtrack-daemon")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "vtrack.conf")
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfig_Defaults(t *testing.T) {
	path := writeTestConfig(t, `
target-file = "data/video_list.json"
history-file = "stats_history.json"
api-key = "k"
`)
	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if !cfg.DailyArchive {
		t.Errorf("daily-archive default = false, want true")
	}
	if cfg.MaxRawSamples != 500 {
		t.Errorf("max-raw-samples default = %d, want 500", cfg.MaxRawSamples)
	}
	if cfg.CollapseAfter.Duration != 35*24*time.Hour {
		t.Errorf("collapse-after default = %v, want 840h", cfg.CollapseAfter.Duration)
	}
	if cfg.MaxDisplayPoints != 100 {
		t.Errorf("max-display-points default = %d, want 100", cfg.MaxDisplayPoints)
	}
}

func TestReadConfig_Durations(t *testing.T) {
	path := writeTestConfig(t, `
target-file = "data/video_list.json"
history-file = "stats_history.json"
api-key = "k"
daily-archive = false
max-raw-age = "30d"
collapse-after = "5w"
max-raw-samples = 300
`)
	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.DailyArchive {
		t.Errorf("daily-archive = true, want false")
	}
	if cfg.MaxRawAge.Duration != 30*24*time.Hour {
		t.Errorf("max-raw-age = %v, want 720h", cfg.MaxRawAge.Duration)
	}
	if cfg.CollapseAfter.Duration != 5*7*24*time.Hour {
		t.Errorf("collapse-after = %v, want 840h", cfg.CollapseAfter.Duration)
	}

	spec := cfg.RetentionSpec()
	if spec.DailyArchive || spec.MaxSamples != 300 || spec.MaxAge != 30*24*time.Hour {
		t.Errorf("RetentionSpec = %+v", spec)
	}
}

func TestProcessConfig(t *testing.T) {
	cfg := &Config{TargetPath: "data/video_list.json", HistoryPath: "h.json", ApiKey: "k"}
	if err := processConfig(cfg, "/wd"); err != nil {
		t.Fatalf("processConfig: %v", err)
	}
	if cfg.TargetPath != "/wd/data/video_list.json" {
		t.Errorf("TargetPath not absolutized: %q", cfg.TargetPath)
	}
	if cfg.HistoryPath != "/wd/h.json" {
		t.Errorf("HistoryPath not absolutized: %q", cfg.HistoryPath)
	}

	// Missing api-key fails, env var supplies it.
	cfg = &Config{TargetPath: "t.json", HistoryPath: "h.json"}
	if err := processConfig(cfg, "/wd"); err == nil {
		t.Errorf("processConfig accepted empty api-key")
	}
	os.Setenv("VTRACK_API_KEY", "envkey")
	defer os.Unsetenv("VTRACK_API_KEY")
	cfg = &Config{TargetPath: "t.json", HistoryPath: "h.json"}
	if err := processConfig(cfg, "/wd"); err != nil {
		t.Errorf("processConfig with VTRACK_API_KEY: %v", err)
	}
	if cfg.ApiKey != "envkey" {
		t.Errorf("ApiKey = %q, want env override", cfg.ApiKey)
	}

	// A postgres store needs no history file.
	cfg = &Config{TargetPath: "t.json", DbConnectString: "host=/tmp", ApiKey: "k"}
	if err := processConfig(cfg, "/wd"); err != nil {
		t.Errorf("processConfig with db-connect-string: %v", err)
	}
}
