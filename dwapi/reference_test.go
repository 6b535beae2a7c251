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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReference(t *testing.T) {
	t.Parallel()

	flat := `{
  "ticker": "OLP",
  "securityId": "SID-OLP",
  "companyName": "One Liberty Properties",
  "cik": "0000712770",
  "lei": "LEI123",
  "ccy": "USD",
  "mic": "XNYS",
  "isPrimary": true,
  "companyInfo": {
    "name": "One Liberty Properties, Inc.",
    "city": "Great Neck",
    "state": "NY",
    "auditorName": "E&Y"
  },
  "securityInfo": {
    "ticker": "OLP",
    "securityType": "common stock",
    "exchangeName": "NYSE",
    "Security12bTitle": "Common Stock, $1.00 par value"
  }
}`

	nested := `{
  "identifiers": {
    "tkr": "OLP",
    "nameFigi": "ONE LIBERTY PROPERTIES",
    "cik": "0000712770",
    "ccy": "USD"
  },
  "dwIds": {"securityId": "SID-OLP"},
  "enhanced": {"primaryTicker": "OLP", "isPrimary": true}
}`

	Convey("Reference parsing works", t, func() {
		Convey("flat layout", func() {
			r, err := ParseReference([]byte(flat))
			So(err, ShouldBeNil)
			So(r.Ticker, ShouldEqual, "OLP")
			So(r.SecurityID, ShouldEqual, "SID-OLP")
			So(*r.CompanyName, ShouldEqual, "One Liberty Properties")
			So(*r.CIK, ShouldEqual, "0000712770")
			So(*r.LEI, ShouldEqual, "LEI123")
			So(*r.MIC, ShouldEqual, "XNYS")
			So(*r.IsPrimary, ShouldBeTrue)

			So(r.CompanyInfo, ShouldNotBeNil)
			So(*r.CompanyInfo.City, ShouldEqual, "Great Neck")
			So(r.CompanyInfo.Address, ShouldBeNil)

			So(r.SecurityInfo, ShouldNotBeNil)
			So(*r.SecurityInfo.Security12bTitle, ShouldEqual,
				"Common Stock, $1.00 par value")

			So(string(r.Raw), ShouldEqual, flat)
		})

		Convey("nested layout resolves through sub-objects", func() {
			r, err := ParseReference([]byte(nested))
			So(err, ShouldBeNil)
			So(r.Ticker, ShouldEqual, "OLP")
			So(r.SecurityID, ShouldEqual, "SID-OLP")
			So(*r.CompanyName, ShouldEqual, "ONE LIBERTY PROPERTIES")
			So(*r.CIK, ShouldEqual, "0000712770")
			So(*r.CCY, ShouldEqual, "USD")
			So(r.LEI, ShouldBeNil)
			So(r.MIC, ShouldBeNil)
			So(*r.IsPrimary, ShouldBeTrue)
			So(r.CompanyInfo, ShouldBeNil)
		})

		Convey("top-level fields win over sub-objects", func() {
			r, err := ParseReference([]byte(
				`{"ticker": "AAA", "identifiers": {"tkr": "BBB"}}`))
			So(err, ShouldBeNil)
			So(r.Ticker, ShouldEqual, "AAA")
		})

		Convey("malformed payload is an error", func() {
			_, err := ParseReference([]byte(`[]`))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Reference table lists present fields only", t, func() {
		r, err := ParseReference([]byte(nested))
		So(err, ShouldBeNil)
		tbl := r.Table()
		So(tbl.Header, ShouldResemble, []string{"Field", "Value"})

		fields := make(map[string]string)
		for _, row := range tbl.Rows {
			cells := row.CSV()
			fields[cells[0]] = cells[1]
		}
		So(fields["Ticker"], ShouldEqual, "OLP")
		So(fields["Security ID"], ShouldEqual, "SID-OLP")
		So(fields["CIK"], ShouldEqual, "0000712770")
		So(fields["Is Primary"], ShouldEqual, "true")
		_, hasLEI := fields["LEI"]
		So(hasLEI, ShouldBeFalse)
	})
}
