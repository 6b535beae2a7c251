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

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/fetch"

	"github.com/datawiserai/datawiser-go/dwapi"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_export_app")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		Convey("valid flags", func() {
			flags, err := parseFlags([]string{
				"-endpoint", "free-float", "-tickers", "OLP,AAPL",
				"-parallel", "4", "-csv"})
			So(err, ShouldBeNil)
			So(flags.Endpoint, ShouldEqual, "free-float")
			So(flags.Tickers, ShouldEqual, "OLP,AAPL")
			So(flags.Parallel, ShouldEqual, 4)
			So(flags.CSV, ShouldBeTrue)
		})

		Convey("only snapshot endpoints are accepted", func() {
			_, err := parseFlags([]string{"-endpoint", "reference"})
			So(err, ShouldNotBeNil)

			_, err = parseFlags([]string{})
			So(err, ShouldNotBeNil)

			flags, err := parseFlags([]string{"-endpoint", "shares_outstanding"})
			So(err, ShouldBeNil)
			So(dwapi.ResolveEndpoint(flags.Endpoint), ShouldEqual,
				dwapi.EndpointSharesOutstanding)
		})

		Convey("parallel must be positive", func() {
			_, err := parseFlags([]string{
				"-endpoint", "free-float", "-parallel", "0"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("parseConfig", t, func() {
		fileName := filepath.Join(tmpdir, "config.toml")
		So(os.WriteFile(fileName, []byte(`key = "testKey"
`), 0644), ShouldBeNil)
		c, err := parseConfig(fileName)
		So(err, ShouldBeNil)
		So(c.Key, ShouldEqual, "testKey")

		_, err = parseConfig(filepath.Join(tmpdir, "no-such.toml"))
		So(err, ShouldNotBeNil)
	})

	Convey("export works", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/manifest/free-float/updates", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
  "OLP": {"ticker": "OLP", "security_id": "SID-1", "last_update": "ts1"},
  "AAPL": {"ticker": "AAPL", "security_id": "SID-2", "last_update": "ts1"},
  "EMPT": {"ticker": "EMPT", "security_id": "SID-3", "last_update": "ts1"}
}`)
		})
		mux.HandleFunc("/free-float/OLP", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ticker": "OLP", "securityId": "SID-1", "events": [
  {"asOf": "2025-01-02", "freeFloatFactor": 0.85, "freeFloatPct": 85,
   "sharesOutstanding": 1000000, "excludedShares": 150000}]}`)
		})
		mux.HandleFunc("/free-float/AAPL", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ticker": "AAPL", "securityId": "SID-2", "events": [
  {"asOf": "2024-11-15", "freeFloatFactor": 0.99, "freeFloatPct": 99,
   "sharesOutstanding": 15000000, "excludedShares": 150000}]}`)
		})
		// A ticker with no events is skipped with a warning.
		mux.HandleFunc("/free-float/EMPT", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ticker": "EMPT", "securityId": "SID-3", "events": []}`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		savedURL := dwapi.URL
		defer func() { dwapi.URL = savedURL }()
		dwapi.URL = server.URL

		ctx := fetch.UseClient(context.Background(), server.Client())
		ctx = dwapi.UseClientOptions(ctx, "testkey", dwapi.Options{
			CacheDir: filepath.Join(tmpdir, "cache"),
		})

		Convey("whole universe, sorted by ticker", func() {
			flags, err := parseFlags([]string{
				"-endpoint", "free-float", "-parallel", "2", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(export(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Ticker,As Of,FF Factor,FF %,Shares Outstanding,Excluded Shares
AAPL,2024-11-15,0.99,99,15000000,150000
OLP,2025-01-02,0.85,85,1000000,150000
`)
		})

		Convey("explicit ticker list skips the universe fetch", func() {
			flags, err := parseFlags([]string{
				"-endpoint", "free-float", "-tickers", "OLP", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(export(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Ticker,As Of,FF Factor,FF %,Shares Outstanding,Excluded Shares
OLP,2025-01-02,0.85,85,1000000,150000
`)
		})
	})
}
