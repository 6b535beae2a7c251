// Copyright 2025 Datawiser

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dwapi

import (
	"sort"

	"github.com/datawiserai/datawiser-go/table"
)

// UniverseEntry is one security in an endpoint's universe.
type UniverseEntry struct {
	Ticker        string
	SecurityID    string
	LastUpdate    string
	DocLastUpdate string
}

var _ table.Row = UniverseEntry{}

// CSV implements table.Row.
func (e UniverseEntry) CSV() []string {
	return []string{e.Ticker, e.SecurityID, e.LastUpdate, e.DocLastUpdate}
}

// UniverseHeader is the column set of a Universe table.
func UniverseHeader() []string {
	return []string{"ticker", "security_id", "last_update", "doc_last_update"}
}

// Universe is the set of available tickers for one endpoint, derived from
// its manifest. It is immutable; a manifest refresh produces a new value.
type Universe struct {
	Endpoint string
	Entries  []UniverseEntry
}

// NewUniverse builds a Universe from a manifest, deduplicated by security id
// and sorted by ticker. When a security is listed under several symbols, the
// lexicographically smallest one wins.
func NewUniverse(endpoint string, m Manifest) *Universe {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	seen := make(map[string]struct{})
	entries := []UniverseEntry{}
	for _, k := range keys {
		e := m[k]
		if _, ok := seen[e.SecurityID]; ok {
			continue
		}
		seen[e.SecurityID] = struct{}{}
		entries = append(entries, UniverseEntry{
			Ticker:        e.Ticker,
			SecurityID:    e.SecurityID,
			LastUpdate:    e.LastUpdate,
			DocLastUpdate: e.DocLastUpdate,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Ticker < entries[j].Ticker
	})
	return &Universe{Endpoint: endpoint, Entries: entries}
}

// Tickers returns the sorted list of available tickers.
func (u *Universe) Tickers() []string {
	tickers := make([]string, len(u.Entries))
	for i, e := range u.Entries {
		tickers[i] = e.Ticker
	}
	return tickers
}

// Contains checks whether s is an available ticker or security id,
// case-sensitive exact match.
func (u *Universe) Contains(s string) bool {
	for _, e := range u.Entries {
		if e.Ticker == s || e.SecurityID == s {
			return true
		}
	}
	return false
}

// Len is the number of securities in the universe.
func (u *Universe) Len() int {
	return len(u.Entries)
}

// Table exports the universe with one row per security.
func (u *Universe) Table() *table.Table {
	tbl := table.NewTable(UniverseHeader()...)
	for _, e := range u.Entries {
		tbl.AddRow(e)
	}
	return tbl
}
