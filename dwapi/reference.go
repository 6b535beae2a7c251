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

	"github.com/stockparfait/errors"

	"github.com/datawiserai/datawiser-go/table"
)

// CompanyInfo is the company-level metadata of a reference record.
type CompanyInfo struct {
	Name            *string `json:"name"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	Zip             *string `json:"zip"`
	PhoneNumber     *string `json:"phoneNumber"`
	TIN             *string `json:"tin"`
	AuditorName     *string `json:"auditorName"`
	AuditorLocation *string `json:"auditorLocation"`
}

// SecurityInfo is the security-level metadata of a reference record.
type SecurityInfo struct {
	Name              *string `json:"name"`
	Ticker            *string `json:"ticker"`
	SecurityType      *string `json:"securityType"`
	SecurityClass     *string `json:"securityClass"`
	ExchangeName      *string `json:"exchangeName"`
	NormalizedSecType *string `json:"normalizedSecType"`
	Security12bTitle  *string `json:"Security12bTitle"`
}

// Reference is the reference / identifier data of a single security.
//
// The endpoint has two possible JSON layouts depending on the ticker: a flat
// one with top-level fields, and a nested one with "identifiers", "dwIds"
// and "enhanced" sub-objects. Common fields are resolved across both layouts
// as typed accessors; the full unmodified payload is retained in Raw.
type Reference struct {
	Ticker       string
	SecurityID   string
	CompanyName  *string
	CIK          *string
	LEI          *string
	CCY          *string
	MIC          *string
	IsPrimary    *bool
	CompanyInfo  *CompanyInfo
	SecurityInfo *SecurityInfo
	Raw          json.RawMessage
}

// referenceWire covers both layouts of the reference payload; Reference is
// resolved from it field by field.
type referenceWire struct {
	Ticker      *string `json:"ticker"`
	SecurityID  *string `json:"securityId"`
	CompanyName *string `json:"companyName"`
	CIK         *string `json:"cik"`
	LEI         *string `json:"lei"`
	CCY         *string `json:"ccy"`
	MIC         *string `json:"mic"`
	IsPrimary   *bool   `json:"isPrimary"`
	Identifiers struct {
		Ticker      *string `json:"tkr"`
		CompanyName *string `json:"nameFigi"`
		CIK         *string `json:"cik"`
		LEI         *string `json:"lei"`
		CCY         *string `json:"ccy"`
		MIC         *string `json:"mic"`
	} `json:"identifiers"`
	DwIDs struct {
		SecurityID *string `json:"securityId"`
	} `json:"dwIds"`
	Enhanced struct {
		PrimaryTicker *string `json:"primaryTicker"`
		IsPrimary     *bool   `json:"isPrimary"`
	} `json:"enhanced"`
	CompanyInfo  *CompanyInfo  `json:"companyInfo"`
	SecurityInfo *SecurityInfo `json:"securityInfo"`
}

func firstStr(ss ...*string) *string {
	for _, s := range ss {
		if s != nil && *s != "" {
			return s
		}
	}
	return nil
}

// ParseReference decodes a raw reference payload, resolving common fields
// across both endpoint layouts.
func ParseReference(data []byte) (*Reference, error) {
	var w referenceWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Annotate(err, "failed to parse reference payload")
	}
	r := Reference{
		CompanyName:  firstStr(w.CompanyName, w.Identifiers.CompanyName),
		CIK:          firstStr(w.CIK, w.Identifiers.CIK),
		LEI:          firstStr(w.LEI, w.Identifiers.LEI),
		CCY:          firstStr(w.CCY, w.Identifiers.CCY),
		MIC:          firstStr(w.MIC, w.Identifiers.MIC),
		CompanyInfo:  w.CompanyInfo,
		SecurityInfo: w.SecurityInfo,
		Raw:          append(json.RawMessage{}, data...),
	}
	if t := firstStr(w.Ticker, w.Identifiers.Ticker, w.Enhanced.PrimaryTicker); t != nil {
		r.Ticker = *t
	}
	if id := firstStr(w.SecurityID, w.DwIDs.SecurityID); id != nil {
		r.SecurityID = *id
	}
	r.IsPrimary = w.IsPrimary
	if r.IsPrimary == nil {
		r.IsPrimary = w.Enhanced.IsPrimary
	}
	return &r, nil
}

// referenceRow is a field / value pair in the reference listing.
type referenceRow struct {
	field string
	value string
}

var _ table.Row = referenceRow{}

func (r referenceRow) CSV() []string { return []string{r.field, r.value} }

// Table lists the resolved reference fields as field / value pairs, skipping
// fields absent from the payload.
func (r *Reference) Table() *table.Table {
	t := table.NewTable("Field", "Value")
	t.AddRow(referenceRow{"Ticker", r.Ticker})
	t.AddRow(referenceRow{"Security ID", r.SecurityID})
	opt := func(field string, v *string) {
		if v != nil {
			t.AddRow(referenceRow{field, *v})
		}
	}
	opt("Company Name", r.CompanyName)
	opt("CIK", r.CIK)
	opt("LEI", r.LEI)
	opt("CCY", r.CCY)
	opt("MIC", r.MIC)
	if r.IsPrimary != nil {
		t.AddRow(referenceRow{"Is Primary", btoa(*r.IsPrimary)})
	}
	if c := r.CompanyInfo; c != nil {
		opt("Company", c.Name)
		opt("Address", c.Address)
		opt("City", c.City)
		opt("State", c.State)
		opt("Zip", c.Zip)
		opt("Phone", c.PhoneNumber)
		opt("TIN", c.TIN)
		opt("Auditor", c.AuditorName)
		opt("Auditor Location", c.AuditorLocation)
	}
	if s := r.SecurityInfo; s != nil {
		opt("Security Name", s.Name)
		opt("Security Type", s.SecurityType)
		opt("Security Class", s.SecurityClass)
		opt("Exchange", s.ExchangeName)
		opt("Normalized Sec Type", s.NormalizedSecType)
		opt("12b Title", s.Security12bTitle)
	}
	return t
}
