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

	"github.com/datawiserai/datawiser-go/dwdb"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFreeFloatEventsDetail(t *testing.T) {
	t.Parallel()

	payload := `{
  "ticker": "OLP",
  "securityId": "SID-OLP",
  "events": [
    {
      "asOf": "2025-01-02",
      "securityId": "SID-OLP",
      "sharesOut": 1000000,
      "ffFactor": 0.85,
      "excludedShares": 150000,
      "deltaShares": -5000,
      "deltaFfFactor": 0.0017,
      "isRebalanced": false,
      "components": {
        "own-1": {
          "asOf": "2025-01-02",
          "name": "Smith, Jane",
          "shares": 100000,
          "deltaShares": -5000,
          "entityType": "person",
          "relType": "officer",
          "eventMask": 3,
          "isOfficer": true,
          "filingDate": "2025-01-03",
          "sourceEvent": "form4",
          "id": "evt-11",
          "components": [
            {"eventMask": 3, "relType": "officer", "shares": 100000,
             "deltaShares": -5000, "sourceEvent": "form4", "id": "cmp-1",
             "eventId": "evt-11", "natureOfOwnership": "direct"}
          ],
          "restrictions": [
            {"eventMask": 1, "relType": "officer", "shares": 20000,
             "deltaShares": 0, "id": "rst-1", "eventId": "evt-11",
             "reason": ["lockup"], "includedInTotal": true,
             "restrictionType": "rsu"}
          ],
          "options": [
            {"shares": 5000, "id": "opt-1"}
          ],
          "eventDetails": {
            "formType": "4", "transactionDate": "2025-01-02",
            "sharesOwnedPost": 100000, "isOfficer": true, "llmSourced": false
          }
        },
        "own-2": {
          "asOf": "2025-01-02",
          "name": "Acme Holdings LLC",
          "shares": 50000,
          "entityType": "company",
          "relType": "10% owner",
          "eventMask": 1,
          "id": "evt-12"
        }
      },
      "delta": {
        "shares": {"own-1": -5000},
        "eventMask": {"own-1": 2}
      }
    },
    {
      "asOf": "2024-12-01",
      "securityId": "SID-OLP",
      "sharesOut": 1000000,
      "ffFactor": 0.8,
      "excludedShares": 200000,
      "isRebalanced": true,
      "components": {}
    }
  ]
}`

	Convey("FreeFloatEventsDetail methods work", t, func() {
		d, err := ParseFreeFloatEventsDetail([]byte(payload))
		So(err, ShouldBeNil)
		So(d.Ticker, ShouldEqual, "OLP")
		So(len(d.Events), ShouldEqual, 2)

		Convey("Dates are most recent first", func() {
			So(d.Dates(), ShouldResemble, []dwdb.Date{
				dwdb.NewDate(2025, 1, 2), dwdb.NewDate(2024, 12, 1)})
		})

		Convey("ByDate and Latest", func() {
			e := d.ByDate(dwdb.NewDate(2025, 1, 2))
			So(e, ShouldNotBeNil)
			So(e.FFFactor, ShouldEqual, 0.85)
			So(d.ByDate(dwdb.NewDate(2020, 1, 1)), ShouldBeNil)
			So(d.Latest(), ShouldEqual, e)
		})

		Convey("owner lookups", func() {
			e := d.Latest()
			So(e.OwnerIDs(), ShouldResemble, []string{"own-1", "own-2"})
			So(e.OwnerNames(), ShouldResemble, map[string]string{
				"own-1": "Smith, Jane",
				"own-2": "Acme Holdings LLC",
			})

			o, err := e.Owner("own-1")
			So(err, ShouldBeNil)
			So(o.OwnerID, ShouldEqual, "own-1")
			So(o.Name, ShouldEqual, "Smith, Jane")
			So(o.IsOfficer, ShouldBeTrue)

			_, err = e.Owner("own-9")
			So(err, ShouldNotBeNil)

			o2, err := e.OwnerByName("Acme Holdings LLC")
			So(err, ShouldBeNil)
			So(o2.OwnerID, ShouldEqual, "own-2")

			_, err = e.OwnerByName("acme holdings llc")
			So(err, ShouldNotBeNil)
		})

		Convey("nested layers are preserved", func() {
			o, err := d.Latest().Owner("own-1")
			So(err, ShouldBeNil)

			So(len(o.Components), ShouldEqual, 1)
			So(o.Components[0].ID, ShouldEqual, "cmp-1")
			So(o.Components[0].NatureOfOwnership, ShouldNotBeNil)
			So(*o.Components[0].NatureOfOwnership, ShouldEqual, "direct")

			So(len(o.Restrictions), ShouldEqual, 1)
			So(o.Restrictions[0].Reason, ShouldResemble, []string{"lockup"})
			So(*o.Restrictions[0].RestrictionType, ShouldEqual, "rsu")
			So(*o.Restrictions[0].IncludedInTotal, ShouldBeTrue)

			So(len(o.Options), ShouldEqual, 1)
			So(*o.Options[0].Shares, ShouldEqual, 5000.0)

			So(o.EventDetails, ShouldNotBeNil)
			So(*o.EventDetails.FormType, ShouldEqual, "4")
			So(*o.EventDetails.SharesOwnedPost, ShouldEqual, 100000.0)
			So(o.EventDetails.Notes, ShouldBeNil)
		})

		Convey("absent optional layers stay empty", func() {
			o, err := d.Latest().Owner("own-2")
			So(err, ShouldBeNil)
			So(len(o.Components), ShouldEqual, 0)
			So(len(o.Restrictions), ShouldEqual, 0)
			So(o.EventDetails, ShouldBeNil)
		})

		Convey("OwnerDelta collects per-metric changes", func() {
			e := d.Latest()
			So(e.OwnerDelta("own-1"), ShouldResemble, map[string]any{
				"shares":    -5000.0,
				"eventMask": 2.0,
			})
			So(e.OwnerDelta("own-2"), ShouldResemble, map[string]any{})
		})

		Convey("event with no owners", func() {
			e := d.ByDate(dwdb.NewDate(2024, 12, 1))
			So(e, ShouldNotBeNil)
			So(e.OwnerIDs(), ShouldResemble, []string{})
			So(e.IsRebal, ShouldBeTrue)
		})

		Convey("malformed payload is an error", func() {
			_, err := ParseFreeFloatEventsDetail([]byte(`"nope"`))
			So(err, ShouldNotBeNil)
		})
	})
}
