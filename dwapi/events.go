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
	"strings"

	"github.com/stockparfait/errors"

	"github.com/datawiserai/datawiser-go/dwdb"
	"github.com/datawiserai/datawiser-go/table"
)

// EventSummary is the high-level aggregate of a single free-float event
// date. Optional fields are nil when absent from the payload. DeltaFFFBps is
// derived as deltaFfFactor / ffFactor in basis points; IsRebal marks a
// scheduled reconciliation checkpoint and is computed server-side, only
// surfaced here.
type EventSummary struct {
	AsOf           dwdb.Date
	ExcludedShares *float64
	FFFactor       *float64
	DeltaShares    *float64
	DeltaFFFactor  *float64
	DeltaFFFBps    *float64
	IsRebal        bool
	SharesOut      *float64
}

var _ table.Row = EventSummary{}

// CSV implements table.Row.
func (e EventSummary) CSV() []string {
	return []string{
		e.AsOf.String(),
		ftoaOpt(e.ExcludedShares),
		ftoaOpt(e.FFFactor),
		ftoaOpt(e.DeltaShares),
		ftoaOpt(e.DeltaFFFactor),
		ftoaOpt(e.DeltaFFFBps),
		btoa(e.IsRebal),
		ftoaOpt(e.SharesOut),
	}
}

// EventSummaryHeader is the column set of a SummaryTable.
func EventSummaryHeader() []string {
	return []string{"as_of", "excluded_shares", "ff_factor", "delta_shares",
		"delta_ff_factor", "delta_fff_bps", "is_rebal", "shares_out"}
}

// OwnerRow is the flat summary of one owner within a single event date.
// Only the scalar fields of the owner's top level are kept; the nested
// components, restrictions, options and event details are available through
// GetFreeFloatEventsDetail.
type OwnerRow struct {
	AsOf            dwdb.Date
	OwnerID         string
	Name            string
	Shares          float64
	DeltaShares     float64
	EntityType      string
	RelType         string
	EventMask       int
	IsOfficer       bool
	IsExtraOwner    bool
	IsNewOwner      bool
	IncompleteEvent bool
	FilingDate      string
	SourceEvent     string
	EventID         string
}

var _ table.Row = OwnerRow{}

// CSV implements table.Row.
func (o OwnerRow) CSV() []string {
	return []string{
		o.AsOf.String(),
		o.OwnerID,
		o.Name,
		ftoa(o.Shares),
		ftoa(o.DeltaShares),
		o.EntityType,
		o.RelType,
		itoa(o.EventMask),
		btoa(o.IsOfficer),
		btoa(o.IsExtraOwner),
		btoa(o.IsNewOwner),
		btoa(o.IncompleteEvent),
		o.FilingDate,
		o.SourceEvent,
		o.EventID,
	}
}

// OwnerRowHeader is the column set of an OwnerTable.
func OwnerRowHeader() []string {
	return []string{"as_of", "owner_identity_id", "name", "shares",
		"delta_shares", "entity_type", "rel_type", "event_mask", "is_officer",
		"is_extra_owner", "is_new_owner", "incomplete_event", "filing_date",
		"source_event", "event_id"}
}

// flatEvent and flatOwner mirror the wire shape of one event for the flat
// view; the nested drill-down fields are ignored here.
type flatOwner struct {
	Name            string  `json:"name"`
	Shares          float64 `json:"shares"`
	DeltaShares     float64 `json:"deltaShares"`
	EntityType      string  `json:"entityType"`
	RelType         string  `json:"relType"`
	EventMask       int     `json:"eventMask"`
	IsOfficer       bool    `json:"isOfficer"`
	IsExtraOwner    bool    `json:"isExtraOwner"`
	IsNewOwner      bool    `json:"isNewOwner"`
	IncompleteEvent bool    `json:"incompleteEvent"`
	FilingDate      string  `json:"filingDate"`
	SourceEvent     string  `json:"sourceEvent"`
	ID              string  `json:"id"`
}

type flatEvent struct {
	AsOf           dwdb.Date            `json:"asOf"`
	ExcludedShares *float64             `json:"excludedShares"`
	FFFactor       *float64             `json:"ffFactor"`
	DeltaShares    *float64             `json:"deltaShares"`
	DeltaFFFactor  *float64             `json:"deltaFfFactor"`
	IsRebalanced   bool                 `json:"isRebalanced"`
	SharesOut      *float64             `json:"sharesOut"`
	Components     map[string]flatOwner `json:"components"`
}

// FreeFloatEvents is the flat (summary) view of free-float events of a
// single security: one EventSummary per event date and one OwnerRow per
// owner per date.
type FreeFloatEvents struct {
	Ticker     string
	SecurityID string
	Summaries  []EventSummary
	Owners     []OwnerRow
}

// ParseFreeFloatEvents decodes a raw free-float-events payload into the flat
// view.
func ParseFreeFloatEvents(data []byte) (*FreeFloatEvents, error) {
	var raw struct {
		Ticker     string      `json:"ticker"`
		SecurityID string      `json:"securityId"`
		Events     []flatEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Annotate(err, "failed to parse free-float-events payload")
	}
	ffe := FreeFloatEvents{Ticker: raw.Ticker, SecurityID: raw.SecurityID}
	for _, ev := range raw.Events {
		var bps *float64
		if ev.FFFactor != nil && ev.DeltaFFFactor != nil && *ev.FFFactor != 0 {
			v := *ev.DeltaFFFactor / *ev.FFFactor * 100 * 100
			bps = &v
		}
		ffe.Summaries = append(ffe.Summaries, EventSummary{
			AsOf:           ev.AsOf,
			ExcludedShares: ev.ExcludedShares,
			FFFactor:       ev.FFFactor,
			DeltaShares:    ev.DeltaShares,
			DeltaFFFactor:  ev.DeltaFFFactor,
			DeltaFFFBps:    bps,
			IsRebal:        ev.IsRebalanced,
			SharesOut:      ev.SharesOut,
		})
		for id, c := range ev.Components {
			ffe.Owners = append(ffe.Owners, OwnerRow{
				AsOf:            ev.AsOf,
				OwnerID:         id,
				Name:            c.Name,
				Shares:          c.Shares,
				DeltaShares:     c.DeltaShares,
				EntityType:      c.EntityType,
				RelType:         c.RelType,
				EventMask:       c.EventMask,
				IsOfficer:       c.IsOfficer,
				IsExtraOwner:    c.IsExtraOwner,
				IsNewOwner:      c.IsNewOwner,
				IncompleteEvent: c.IncompleteEvent,
				FilingDate:      c.FilingDate,
				SourceEvent:     c.SourceEvent,
				EventID:         c.ID,
			})
		}
	}
	sortOwnerRows(ffe.Owners)
	return &ffe, nil
}

// sortOwnerRows orders rows by date descending, then by owner name
// ascending, the natural order of the owner table.
func sortOwnerRows(rows []OwnerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AsOf != rows[j].AsOf {
			return rows[j].AsOf.Before(rows[i].AsOf)
		}
		return rows[i].Name < rows[j].Name
	})
}

// Dates returns the distinct event dates, most recent first.
func (f *FreeFloatEvents) Dates() []dwdb.Date {
	seen := make(map[dwdb.Date]struct{})
	dates := []dwdb.Date{}
	for _, s := range f.Summaries {
		if _, ok := seen[s.AsOf]; ok {
			continue
		}
		seen[s.AsOf] = struct{}{}
		dates = append(dates, s.AsOf)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[j].Before(dates[i]) })
	return dates
}

// LatestSummary returns the event summary with the maximum as-of date, or
// nil when there are no events.
func (f *FreeFloatEvents) LatestSummary() *EventSummary {
	var latest *EventSummary
	for i := range f.Summaries {
		if latest == nil || latest.AsOf.Before(f.Summaries[i].AsOf) {
			latest = &f.Summaries[i]
		}
	}
	return latest
}

// OwnersOn returns the owner rows for a single event date.
func (f *FreeFloatEvents) OwnersOn(asOf dwdb.Date) []OwnerRow {
	rows := []OwnerRow{}
	for _, o := range f.Owners {
		if o.AsOf == asOf {
			rows = append(rows, o)
		}
	}
	return rows
}

// OwnerByName returns all rows whose owner name matches name exactly,
// case-sensitive. An owner typically appears on multiple dates.
func (f *FreeFloatEvents) OwnerByName(name string) []OwnerRow {
	rows := []OwnerRow{}
	for _, o := range f.Owners {
		if o.Name == name {
			rows = append(rows, o)
		}
	}
	return rows
}

// FindOwners returns all rows whose owner name contains substr,
// case-insensitive.
func (f *FreeFloatEvents) FindOwners(substr string) []OwnerRow {
	substr = strings.ToLower(substr)
	rows := []OwnerRow{}
	for _, o := range f.Owners {
		if strings.Contains(strings.ToLower(o.Name), substr) {
			rows = append(rows, o)
		}
	}
	return rows
}

// SummaryTable exports one row per event date, most recent first.
func (f *FreeFloatEvents) SummaryTable() *table.Table {
	summaries := make([]EventSummary, len(f.Summaries))
	copy(summaries, f.Summaries)
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[j].AsOf.Before(summaries[i].AsOf)
	})
	tbl := table.NewTable(EventSummaryHeader()...)
	for _, s := range summaries {
		tbl.AddRow(s)
	}
	return tbl
}

// OwnerTable exports one row per owner per event date, sorted by date
// descending then owner name.
func (f *FreeFloatEvents) OwnerTable() *table.Table {
	tbl := table.NewTable(OwnerRowHeader()...)
	for _, o := range f.Owners {
		tbl.AddRow(o)
	}
	return tbl
}
