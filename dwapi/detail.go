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
)

// The nested ownership drill-down. Every layer is a plain struct with
// explicit optional (pointer) fields, so field presence survives the trip
// through JSON.

// Component is one sub-component within an owner's components list.
type Component struct {
	EventMask               int               `json:"eventMask"`
	RelType                 string            `json:"relType"`
	Shares                  float64           `json:"shares"`
	DeltaShares             float64           `json:"deltaShares"`
	SourceEvent             string            `json:"sourceEvent"`
	ID                      string            `json:"id"`
	EventID                 string            `json:"eventId"`
	IsParentEvent           bool              `json:"isParentEvent"`
	PossibleSharedOwnership bool              `json:"possibleSharedOwnership"`
	Reconciled              bool              `json:"reconciled"`
	IsBenOwnerExclusion     bool              `json:"isBenOwnerExclusion"`
	IsCrossHolding          bool              `json:"isCrossHolding"`
	RetainedFrom            []json.RawMessage `json:"retainedFrom"`
	IncompleteEventRetained bool              `json:"incompleteEventRetained"`
	NatureOfOwnership       *string           `json:"natureOfOwnership"`
	Entity                  *string           `json:"entity"`
}

// Restriction is one restriction within an owner's restrictions list, e.g.
// restricted stock.
type Restriction struct {
	EventMask               int               `json:"eventMask"`
	RelType                 string            `json:"relType"`
	Shares                  float64           `json:"shares"`
	DeltaShares             float64           `json:"deltaShares"`
	SourceEvent             string            `json:"sourceEvent"`
	ID                      string            `json:"id"`
	EventID                 string            `json:"eventId"`
	IsParentEvent           bool              `json:"isParentEvent"`
	IsOversizedShares       bool              `json:"isOversizedShares"`
	PossibleSharedOwnership bool              `json:"possibleSharedOwnership"`
	Reconciled              bool              `json:"reconciled"`
	IsBenOwnerExclusion     bool              `json:"isBenOwnerExclusion"`
	IsCrossHolding          bool              `json:"isCrossHolding"`
	RetainedFrom            []json.RawMessage `json:"retainedFrom"`
	IncompleteEventRetained bool              `json:"incompleteEventRetained"`
	Reason                  []string          `json:"reason"`
	IncludedInTotal         *bool             `json:"includedInTotal"`
	RestrictionType         *string           `json:"restrictionType"`
}

// Option is one option-related entry within an owner's options list. The
// shape is loosely specified server-side, hence all fields are optional.
type Option struct {
	EventMask   *int     `json:"eventMask"`
	RelType     *string  `json:"relType"`
	Shares      *float64 `json:"shares"`
	DeltaShares *float64 `json:"deltaShares"`
	SourceEvent *string  `json:"sourceEvent"`
	ID          *string  `json:"id"`
	EventID     *string  `json:"eventId"`
}

// EventDetails are the form/transaction details of an owner's event, e.g.
// form type, classification notes and instrument subtype.
type EventDetails struct {
	FormType                *string  `json:"formType"`
	IRType                  *string  `json:"irType"`
	Notes                   *string  `json:"notes"`
	RelType                 *string  `json:"relType"`
	FileSource              *string  `json:"fileSource"`
	TransactionDate         *string  `json:"transactionDate"`
	SharesOwnedPost         *float64 `json:"sharesOwnedPost"`
	DeltaShares             *float64 `json:"deltaShares"`
	Shares                  *float64 `json:"shares"`
	PossibleSharedOwnership *bool    `json:"possibleSharedOwnership"`
	InstrumentType          *string  `json:"instrumentType"`
	InstrumentSubtype       *string  `json:"instrumentSubtype"`
	IsOfficer               *bool    `json:"isOfficer"`
	ZeroSharesVerified      *bool    `json:"zeroSharesVerified"`
	LLMSourced              *bool    `json:"llmSourced"`
}

// OwnerDetail is the full detail of one owner on one event date.
type OwnerDetail struct {
	OwnerID          string        `json:"-"` // the key in the event's owner map
	AsOf             dwdb.Date     `json:"asOf"`
	Shares           float64       `json:"shares"`
	EventMask        int           `json:"eventMask"`
	EntityType       string        `json:"entityType"`
	DeltaShares      float64       `json:"deltaShares"`
	RelType          string        `json:"relType"`
	Name             string        `json:"name"`
	Components       []Component   `json:"components"`
	Restrictions     []Restriction `json:"restrictions"`
	Options          []Option      `json:"options"`
	EventDetails     *EventDetails `json:"eventDetails"`
	FilingDate       string        `json:"filingDate"`
	SourceEvent      string        `json:"sourceEvent"`
	EventID          string        `json:"id"`
	IncompleteEvent  bool          `json:"incompleteEvent"`
	SourceSpansDates bool          `json:"sourceSpansDates"`
	IsOfficer        bool          `json:"isOfficer"`
	IsExtraOwner     bool          `json:"isExtraOwner"`
	IsNewOwner       bool          `json:"isNewOwner"`
}

// EventDetail is the full detail of a single event date.
type EventDetail struct {
	AsOf           dwdb.Date                 `json:"asOf"`
	SecurityID     string                    `json:"securityId"`
	Owners         map[string]*OwnerDetail   `json:"components"`
	SharesOut      float64                   `json:"sharesOut"`
	FFFactor       float64                   `json:"ffFactor"`
	ExcludedShares float64                   `json:"excludedShares"`
	DeltaShares    float64                   `json:"deltaShares"`
	DeltaFFFactor  float64                   `json:"deltaFfFactor"`
	IsRebal        bool                      `json:"isRebalanced"`
	Delta          map[string]map[string]any `json:"delta"`
}

// OwnerIDs returns the owner identity ids present on this date, sorted.
func (e *EventDetail) OwnerIDs() []string {
	ids := make([]string, 0, len(e.Owners))
	for id := range e.Owners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OwnerNames maps owner identity id to display name.
func (e *EventDetail) OwnerNames() map[string]string {
	names := make(map[string]string, len(e.Owners))
	for id, o := range e.Owners {
		names[id] = o.Name
	}
	return names
}

// Owner returns the detail record of a single owner.
func (e *EventDetail) Owner(ownerID string) (*OwnerDetail, error) {
	o, ok := e.Owners[ownerID]
	if !ok {
		return nil, errors.Reason("no owner with id '%s' on %s", ownerID, e.AsOf)
	}
	return o, nil
}

// OwnerByName returns the first owner whose name matches exactly,
// case-sensitive.
func (e *EventDetail) OwnerByName(name string) (*OwnerDetail, error) {
	for _, id := range e.OwnerIDs() {
		if o := e.Owners[id]; o.Name == name {
			return o, nil
		}
	}
	return nil, errors.Reason("no owner named '%s' on %s", name, e.AsOf)
}

// OwnerDelta collects the per-metric delta values of a single owner.
func (e *EventDetail) OwnerDelta(ownerID string) map[string]any {
	delta := make(map[string]any)
	for metric, owners := range e.Delta {
		if v, ok := owners[ownerID]; ok {
			delta[metric] = v
		}
	}
	return delta
}

// FreeFloatEventsDetail is the full nested drill-down of free-float events
// of a single security. It is built from the same payload as
// FreeFloatEvents and is meant for structural exploration rather than
// tabular export.
type FreeFloatEventsDetail struct {
	Ticker     string        `json:"ticker"`
	SecurityID string        `json:"securityId"`
	Events     []EventDetail `json:"events"`
}

// ParseFreeFloatEventsDetail decodes a raw free-float-events payload into
// the nested view.
func ParseFreeFloatEventsDetail(data []byte) (*FreeFloatEventsDetail, error) {
	var d FreeFloatEventsDetail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Annotate(err, "failed to parse free-float-events payload")
	}
	for i := range d.Events {
		for id, o := range d.Events[i].Owners {
			o.OwnerID = id
		}
	}
	return &d, nil
}

// Dates returns the distinct event dates, most recent first.
func (d *FreeFloatEventsDetail) Dates() []dwdb.Date {
	seen := make(map[dwdb.Date]struct{})
	dates := []dwdb.Date{}
	for _, e := range d.Events {
		if _, ok := seen[e.AsOf]; ok {
			continue
		}
		seen[e.AsOf] = struct{}{}
		dates = append(dates, e.AsOf)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[j].Before(dates[i]) })
	return dates
}

// ByDate returns the event detail for a specific date, or nil when there is
// no event on that date.
func (d *FreeFloatEventsDetail) ByDate(asOf dwdb.Date) *EventDetail {
	for i := range d.Events {
		if d.Events[i].AsOf == asOf {
			return &d.Events[i]
		}
	}
	return nil
}

// Latest returns the event detail with the maximum as-of date, or nil when
// there are no events.
func (d *FreeFloatEventsDetail) Latest() *EventDetail {
	var latest *EventDetail
	for i := range d.Events {
		if latest == nil || latest.AsOf.Before(d.Events[i].AsOf) {
			latest = &d.Events[i]
		}
	}
	return latest
}
