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

// Command datawiser-export downloads the latest value of an endpoint for
// every ticker in its universe and prints a one-row-per-ticker snapshot
// table. Downloads run in parallel and go through the local cache, so
// repeated runs only fetch tickers the server has updated.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	"github.com/datawiserai/datawiser-go/dwapi"
	"github.com/datawiserai/datawiser-go/table"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Conf     string // path to config.toml; default: ~/.datawiserai/config.toml
	Endpoint string // free-float or shares-outstanding
	Tickers  string // comma-separated subset; default: the entire universe
	Parallel int    // number of parallel downloads
	LogLevel logging.Level
	CSV      bool // dump CSV format; default: text.
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("datawiser-export", flag.ExitOnError)
	fs.StringVar(&flags.Conf, "conf",
		filepath.Join(os.Getenv("HOME"), ".datawiserai", "config.toml"),
		"path to the config file")
	fs.StringVar(&flags.Endpoint, "endpoint", "",
		"API endpoint: free-float or shares-outstanding")
	fs.StringVar(&flags.Tickers, "tickers", "",
		"comma-separated tickers; default: the endpoint's entire universe")
	fs.IntVar(&flags.Parallel, "parallel", 2*runtime.NumCPU(),
		"number of parallel downloads")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	switch dwapi.ResolveEndpoint(flags.Endpoint) {
	case dwapi.EndpointFreeFloat, dwapi.EndpointSharesOutstanding:
	default:
		return nil, errors.Reason(
			"-endpoint must be free-float or shares-outstanding, got '%s'",
			flags.Endpoint)
	}
	if flags.Parallel < 1 {
		return nil, errors.Reason("-parallel must be positive, got %d",
			flags.Parallel)
	}
	return &flags, err
}

type Config struct {
	Key      string `toml:"key"`       // your Datawiser API key
	CacheDir string `toml:"cache_dir"` // cache root; default: ~/.datawiserai/cache
	NoCache  bool   `toml:"no_cache"`  // bypass the local cache entirely
}

func parseConfig(filePath string) (*Config, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if c.Key == "" {
		return nil, errors.Reason("config file %s has no 'key'", filePath)
	}
	return &c, nil
}

// exportRow is one ticker's latest snapshot in the export table.
type exportRow struct {
	ticker string
	cells  []string
}

var _ table.Row = exportRow{}

func (r exportRow) CSV() []string {
	return append([]string{r.ticker}, r.cells...)
}

func exportHeader(endpoint string) []string {
	if endpoint == dwapi.EndpointFreeFloat {
		return []string{"Ticker", "As Of", "FF Factor", "FF %",
			"Shares Outstanding", "Excluded Shares"}
	}
	return []string{"Ticker", "As Of", "Share Type", "Shares", "Source"}
}

func processTicker(ctx context.Context, endpoint, ticker string) (exportRow, error) {
	if endpoint == dwapi.EndpointFreeFloat {
		ff, err := dwapi.GetFreeFloat(ctx, ticker)
		if err != nil {
			return exportRow{}, err
		}
		latest := ff.Latest()
		if latest == nil {
			return exportRow{}, errors.Reason("no free-float events for %s", ticker)
		}
		return exportRow{ticker: ticker, cells: latest.CSV()}, nil
	}
	so, err := dwapi.GetSharesOutstanding(ctx, ticker)
	if err != nil {
		return exportRow{}, err
	}
	latest := so.Latest()
	if latest == nil {
		return exportRow{}, errors.Reason("no shares-outstanding events for %s",
			ticker)
	}
	// Keep the snapshot columns: as-of, share type, shares, source.
	return exportRow{ticker: ticker, cells: latest.CSV()[:4]}, nil
}

func export(ctx context.Context, flags *Flags, w io.Writer) error {
	endpoint := dwapi.ResolveEndpoint(flags.Endpoint)
	var tickers []string
	if flags.Tickers != "" {
		tickers = strings.Split(flags.Tickers, ",")
	} else {
		u, err := dwapi.GetUniverse(ctx, endpoint)
		if err != nil {
			return errors.Annotate(err, "failed to fetch %s universe", endpoint)
		}
		tickers = u.Tickers()
	}
	f := func(ticker string) *exportRow {
		row, err := processTicker(ctx, endpoint, ticker)
		if err != nil {
			logging.Warningf(ctx, "skipping %s: %s", ticker, err.Error())
			return nil
		}
		return &row
	}
	pm := iterator.ParallelMap(ctx, flags.Parallel, iterator.FromSlice(tickers), f)
	defer pm.Close()

	rows := iterator.Reduce[*exportRow, []*exportRow](pm, []*exportRow{},
		func(r *exportRow, rows []*exportRow) []*exportRow {
			if r == nil {
				return rows
			}
			return append(rows, r)
		})
	sort.Slice(rows, func(i, j int) bool { return rows[i].ticker < rows[j].ticker })

	tbl := table.NewTable(exportHeader(endpoint)...)
	for _, row := range rows {
		tbl.AddRow(*row)
	}
	if flags.CSV {
		if err := tbl.WriteCSV(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	config, err := parseConfig(flags.Conf)
	if err != nil {
		logging.Errorf(ctx, "failed to parse config: %s", err.Error())
		os.Exit(1)
	}
	ctx = dwapi.UseClientOptions(ctx, config.Key, dwapi.Options{
		CacheDir: config.CacheDir,
		NoCache:  config.NoCache,
	})

	if err := export(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
