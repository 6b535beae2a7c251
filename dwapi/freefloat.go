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

// FreeFloatEvent is a single point-in-time free-float observation.
type FreeFloatEvent struct {
	AsOf              dwdb.Date `json:"asOf"`
	FreeFloatFactor   float64   `json:"freeFloatFactor"`
	FreeFloatPct      float64   `json:"freeFloatPct"`
	SharesOutstanding float64   `json:"sharesOutstanding"`
	ExcludedShares    float64   `json:"excludedShares"`
}

var _ table.Row = FreeFloatEvent{}

// CSV implements table.Row.
func (e FreeFloatEvent) CSV() []string {
	return []string{
		e.AsOf.String(),
		ftoa(e.FreeFloatFactor),
		ftoa(e.FreeFloatPct),
		ftoa(e.SharesOutstanding),
		ftoa(e.ExcludedShares),
	}
}

// FreeFloatHeader is the column set of a FreeFloat table.
func FreeFloatHeader() []string {
	return []string{"as_of", "free_float_factor", "free_float_pct",
		"shares_outstanding", "excluded_shares"}
}

// FreeFloat is the free-float time series of a single security.
type FreeFloat struct {
	Ticker     string           `json:"ticker"`
	SecurityID string           `json:"securityId"`
	Events     []FreeFloatEvent `json:"events"`
}

// ParseFreeFloat decodes a raw free-float payload.
func ParseFreeFloat(data []byte) (*FreeFloat, error) {
	var ff FreeFloat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, errors.Annotate(err, "failed to parse free-float payload")
	}
	return &ff, nil
}

// Latest returns the event with the maximum as-of date, or nil when the
// series is empty.
func (f *FreeFloat) Latest() *FreeFloatEvent {
	var latest *FreeFloatEvent
	for i := range f.Events {
		if latest == nil || latest.AsOf.Before(f.Events[i].AsOf) {
			latest = &f.Events[i]
		}
	}
	return latest
}

// Table exports the series with one row per event, most recent first.
func (f *FreeFloat) Table() *table.Table {
	events := make([]FreeFloatEvent, len(f.Events))
	copy(events, f.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[j].AsOf.Before(events[i].AsOf)
	})
	tbl := table.NewTable(FreeFloatHeader()...)
	for _, e := range events {
		tbl.AddRow(e)
	}
	return tbl
}
