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

package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vtrack/vtrack/series"
)

const (
	defaultApiUrl    = "https://www.googleapis.com/youtube/v3/videos"
	defaultChunkSize = 50 // videos.list id limit
)

// YouTubeFetcher fetches view counts via the YouTube Data API v3,
// batching lookup ids and rate limiting the calls.
type YouTubeFetcher struct {
	apiKey    string
	apiUrl    string
	chunkSize int
	client    *http.Client
	limiter   *rate.Limiter
}

// NewYouTubeFetcher returns a fetcher issuing at most perSec calls
// per second (0 = unlimited).
func NewYouTubeFetcher(apiKey string, perSec float64) *YouTubeFetcher {
	limit := rate.Inf
	if perSec > 0 {
		limit = rate.Limit(perSec)
	}
	return &YouTubeFetcher{
		apiKey:    apiKey,
		apiUrl:    defaultApiUrl,
		chunkSize: defaultChunkSize,
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Wire format of the videos.list response, statistics only carry what
// we read. viewCount arrives as a string and is absent entirely when
// the uploader hides statistics.
type listResponse struct {
	Items []struct {
		Id      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Thumbnails  struct {
				High struct {
					Url string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// FetchAll fetches readings for all targets in chunks. A failed chunk
// is logged and skipped, the remaining chunks still go through.
func (f *YouTubeFetcher) FetchAll(targets []Target, now time.Time) []Observation {
	byId := make(map[string]Target, len(targets))
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		byId[t.Id] = t
		ids = append(ids, t.Id)
	}

	var result []Observation
	for i := 0; i < len(ids); i += f.chunkSize {
		end := i + f.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		obs, err := f.fetchChunk(ids[i:end], byId, now)
		if err != nil {
			log.Printf("FetchAll: chunk %d-%d failed, skipping: %v", i, end, err)
			continue
		}
		result = append(result, obs...)
	}
	return result
}

func (f *YouTubeFetcher) fetchChunk(ids []string, byId map[string]Target, now time.Time) ([]Observation, error) {
	f.limiter.Wait(context.TODO())

	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", f.apiKey)

	resp, err := f.client.Get(f.apiUrl + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, err
	}

	result := make([]Observation, 0, len(lr.Items))
	for _, item := range lr.Items {
		target := byId[item.Id]
		result = append(result, Observation{
			Id:         item.Id,
			Views:      parseViewCount(item.Statistics.ViewCount),
			ObservedAt: now,
			Info: series.Info{
				Title:      item.Snippet.Title,
				Thumbnail:  item.Snippet.Thumbnails.High.Url,
				UploadDate: item.Snippet.PublishedAt,
				Unit:       target.Unit,
				Character:  target.Character,
			},
		})
	}
	return result, nil
}

// parseViewCount coerces a missing or malformed count to 0, matching
// the upstream "statistics hidden" semantics.
func parseViewCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
