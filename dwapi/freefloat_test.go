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

func TestFreeFloat(t *testing.T) {
	t.Parallel()

	payload := `{
  "ticker": "OLP",
  "securityId": "SID-OLP",
  "events": [
    {"asOf": "2024-12-01", "freeFloatFactor": 0.8, "freeFloatPct": 80.0,
     "sharesOutstanding": 1000000, "excludedShares": 200000},
    {"asOf": "2025-01-02", "freeFloatFactor": 0.85, "freeFloatPct": 85.0,
     "sharesOutstanding": 1000000, "excludedShares": 150000}
  ]
}`

	Convey("FreeFloat methods work", t, func() {
		ff, err := ParseFreeFloat([]byte(payload))
		So(err, ShouldBeNil)
		So(ff.Ticker, ShouldEqual, "OLP")
		So(ff.SecurityID, ShouldEqual, "SID-OLP")
		So(len(ff.Events), ShouldEqual, 2)

		Convey("Latest picks the maximum as-of date", func() {
			latest := ff.Latest()
			So(latest, ShouldNotBeNil)
			So(latest.AsOf, ShouldResemble, dwdb.NewDate(2025, 1, 2))
			So(latest.FreeFloatFactor, ShouldEqual, 0.85)
		})

		Convey("Latest of an empty series is nil", func() {
			So((&FreeFloat{}).Latest(), ShouldBeNil)
		})

		Convey("Table is sorted most recent first", func() {
			tbl := ff.Table()
			So(tbl.Header, ShouldResemble, FreeFloatHeader())
			So(len(tbl.Rows), ShouldEqual, 2)
			So(tbl.Rows[0].CSV(), ShouldResemble, []string{
				"2025-01-02", "0.85", "85", "1000000", "150000"})
			So(tbl.Rows[1].CSV()[0], ShouldEqual, "2024-12-01")
		})

		Convey("malformed payload is an error", func() {
			_, err := ParseFreeFloat([]byte(`{"events": "nope"}`))
			So(err, ShouldNotBeNil)
		})
	})
}
