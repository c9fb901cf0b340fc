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

package serde

// normalizeDoc brings any legacy document to the current shape before
// processing begins, so that steady-state code never sees an old
// layout. Two legacy forms exist:
//
//   - raw_history (snake_case) instead of rawHistory
//   - only a flat history array and no raw store at all; that array
//     is adopted as the initial raw history exactly once, and the
//     next regeneration replaces the display series
//
// Predicted points of an adopted history are excluded, they were
// never observed.
func normalizeDoc(doc *entityDoc) {
	if len(doc.RawHistory) == 0 && len(doc.RawHistoryLegacy) > 0 {
		doc.RawHistory = doc.RawHistoryLegacy
	}
	doc.RawHistoryLegacy = nil

	if len(doc.RawHistory) == 0 && len(doc.History) > 0 {
		for _, p := range doc.History {
			if p.Type == "predicted" {
				continue
			}
			doc.RawHistory = append(doc.RawHistory, pointDoc{p.Timestamp, p.Views})
		}
		doc.History = nil
	}
}
