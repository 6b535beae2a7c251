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
	"encoding/json"
	"sort"

	"github.com/stockparfait/errors"

	"github.com/datawiserai/datawiser-go/dwdb"
	"github.com/datawiserai/datawiser-go/table"
)

// SharesOutstandingEvent is a single shares-outstanding observation.
type SharesOutstandingEvent struct {
	AsOf       dwdb.Date
	ShareType  string
	Shares     float64
	Source     string
	SecType    string
	LastUpdate string
	AsOfRs     *dwdb.Date // restated as-of date, when present
}

var _ json.Unmarshaler = &SharesOutstandingEvent{}

// UnmarshalJSON implements json.Unmarshaler. Older payloads carry the as-of
// date under "asOfDate" instead of "asOf"; both are accepted.
func (e *SharesOutstandingEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		AsOf       *dwdb.Date `json:"asOf"`
		AsOfDate   *dwdb.Date `json:"asOfDate"`
		AsOfRs     *dwdb.Date `json:"asOfDateRs"`
		ShareType  string     `json:"shareType"`
		Shares     float64    `json:"shares"`
		Source     string     `json:"source"`
		SecType    string     `json:"secType"`
		LastUpdate string     `json:"lastUpdate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Annotate(err, "failed to parse shares-outstanding event")
	}
	asOf := raw.AsOf
	if asOf == nil {
		asOf = raw.AsOfDate
	}
	if asOf == nil {
		return errors.Reason("shares-outstanding event has neither asOf nor asOfDate")
	}
	*e = SharesOutstandingEvent{
		AsOf:       *asOf,
		ShareType:  raw.ShareType,
		Shares:     raw.Shares,
		Source:     raw.Source,
		SecType:    raw.SecType,
		LastUpdate: raw.LastUpdate,
		AsOfRs:     raw.AsOfRs,
	}
	return nil
}

var _ table.Row = SharesOutstandingEvent{}

// CSV implements table.Row.
func (e SharesOutstandingEvent) CSV() []string {
	asOfRs := ""
	if e.AsOfRs != nil {
		asOfRs = e.AsOfRs.String()
	}
	return []string{
		e.AsOf.String(),
		e.ShareType,
		ftoa(e.Shares),
		e.Source,
		e.SecType,
		e.LastUpdate,
		asOfRs,
	}
}

// SharesOutstandingHeader is the column set of a SharesOutstanding table.
func SharesOutstandingHeader() []string {
	return []string{"as_of", "share_type", "shares", "source", "sec_type",
		"last_update", "as_of_rs"}
}

// SharesOutstanding is the share-count time series of a single security.
type SharesOutstanding struct {
	Ticker     string                   `json:"ticker"`
	SecurityID string                   `json:"securityId"`
	Events     []SharesOutstandingEvent `json:"events"`
}

// ParseSharesOutstanding decodes a raw shares-outstanding payload.
func ParseSharesOutstanding(data []byte) (*SharesOutstanding, error) {
	var so SharesOutstanding
	if err := json.Unmarshal(data, &so); err != nil {
		return nil, errors.Annotate(err, "failed to parse shares-outstanding payload")
	}
	return &so, nil
}

// Latest returns the event with the maximum as-of date, or nil when the
// series is empty.
func (s *SharesOutstanding) Latest() *SharesOutstandingEvent {
	var latest *SharesOutstandingEvent
	for i := range s.Events {
		if latest == nil || latest.AsOf.Before(s.Events[i].AsOf) {
			latest = &s.Events[i]
		}
	}
	return latest
}

// Table exports the series with one row per event, most recent first.
func (s *SharesOutstanding) Table() *table.Table {
	events := make([]SharesOutstandingEvent, len(s.Events))
	copy(events, s.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[j].AsOf.Before(events[i].AsOf)
	})
	tbl := table.NewTable(SharesOutstandingHeader()...)
	for _, e := range events {
		tbl.AddRow(e)
	}
	return tbl
}
