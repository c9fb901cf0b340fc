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

// Vtrack tracks view counters of a fixed list of videos: each run
// fetches the current counts, resamples them onto a half-hour display
// grid, predicts a current value and degrades old data into daily
// archives. State lives in a JSON document file or PostgreSQL.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vtrack/vtrack/daemon"
	"github.com/vtrack/vtrack/fetcher"
	"github.com/vtrack/vtrack/http"
)

var Version = "0.1.0"

func parseFlags() (textCfgPath string, serve, version bool) {

	// Parse the flags, if any
	flag.StringVar(&textCfgPath, "c", "./etc/vtrack.conf", "path to config file")
	flag.BoolVar(&serve, "serve", false, "Serve the store over HTTP instead of running a cycle")
	flag.BoolVar(&version, "version", false, "Print version and exit")
	flag.Parse()

	return
}

func main() {

	textCfgPath, serve, version := parseFlags()

	if version {
		fmt.Printf("Vtrack version: %v\n", Version)
		return
	}

	cfg := daemon.Init(textCfgPath)
	if cfg == nil {
		os.Exit(1)
	}

	db, err := daemon.NewSerDe(cfg)
	if err != nil {
		log.Fatalf("Error initializing the store: %v", err)
	}

	if serve {
		if cfg.HttpListenSpec == "" {
			log.Fatal("http-listen-spec is empty.")
		}
		srv := http.NewServer(db, 512)
		log.Fatal(srv.ListenAndServe(cfg.HttpListenSpec))
	}

	sf := fetcher.NewYouTubeFetcher(cfg.ApiKey, cfg.FetchRateLimit)
	if err := daemon.Run(cfg, db, sf); err != nil {
		log.Fatalf("Cycle failed: %v", err)
	}
}
