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
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/datawiserai/datawiser-go/dwapi"
	"github.com/datawiserai/datawiser-go/table"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Conf     string // path to config.toml; default: ~/.datawiserai/config.toml
	Endpoint string
	LogLevel logging.Level
	// Exactly one of universe, ticker or clear must be present.
	Universe bool
	Ticker   string // ticker to fetch data for
	Clear    bool   // clear the cache for -endpoint, or all when empty
	Owners   bool   // with free-float-events: per-owner rows, not summaries
	CSV      bool   // dump CSV format; default: text.
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("datawiser-fetch", flag.ExitOnError)
	fs.StringVar(&flags.Conf, "conf",
		filepath.Join(os.Getenv("HOME"), ".datawiserai", "config.toml"),
		"path to the config file")
	fs.StringVar(&flags.Endpoint, "endpoint", "",
		"API endpoint: free-float, free-float-events, shares-outstanding, reference")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.Universe, "universe", false, "print the endpoint's tickers")
	fs.StringVar(&flags.Ticker, "ticker", "", "ticker to fetch data for")
	fs.BoolVar(&flags.Clear, "clear", false,
		"clear cached responses for -endpoint, or the entire cache when -endpoint is empty")
	fs.BoolVar(&flags.Owners, "owners", false,
		"with free-float-events: print per-owner rows instead of event summaries")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	kinds := 0
	if flags.Universe {
		kinds++
	}
	if flags.Ticker != "" {
		kinds++
	}
	if flags.Clear {
		kinds++
	}
	if kinds != 1 {
		return nil, errors.Reason(
			"expected exactly one of -universe, -ticker or -clear")
	}
	if !flags.Clear && !dwapi.ValidEndpoint(flags.Endpoint) {
		return nil, errors.Reason("invalid -endpoint: '%s'", flags.Endpoint)
	}
	if flags.Clear && flags.Endpoint != "" && !dwapi.ValidEndpoint(flags.Endpoint) {
		return nil, errors.Reason("invalid -endpoint: '%s'", flags.Endpoint)
	}
	return &flags, err
}

type Config struct {
	Key      string `toml:"key"`       // your Datawiser API key
	CacheDir string `toml:"cache_dir"` // cache root; default: ~/.datawiserai/cache
	NoCache  bool   `toml:"no_cache"`  // bypass the local cache entirely
}

func parseConfig(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretDatawiserKey"
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
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

func tickerTable(ctx context.Context, flags *Flags) (*table.Table, error) {
	switch dwapi.ResolveEndpoint(flags.Endpoint) {
	case dwapi.EndpointFreeFloat:
		ff, err := dwapi.GetFreeFloat(ctx, flags.Ticker)
		if err != nil {
			return nil, err
		}
		return ff.Table(), nil
	case dwapi.EndpointFreeFloatEvents:
		ev, err := dwapi.GetFreeFloatEvents(ctx, flags.Ticker)
		if err != nil {
			return nil, err
		}
		if flags.Owners {
			return ev.OwnerTable(), nil
		}
		return ev.SummaryTable(), nil
	case dwapi.EndpointSharesOutstanding:
		so, err := dwapi.GetSharesOutstanding(ctx, flags.Ticker)
		if err != nil {
			return nil, err
		}
		return so.Table(), nil
	case dwapi.EndpointReference:
		ref, err := dwapi.GetReference(ctx, flags.Ticker)
		if err != nil {
			return nil, err
		}
		return ref.Table(), nil
	}
	return nil, errors.Reason("invalid endpoint: '%s'", flags.Endpoint)
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	if flags.Clear {
		n, err := dwapi.ClearCache(ctx, flags.Endpoint)
		if err != nil {
			return errors.Annotate(err, "failed to clear cache")
		}
		logging.Infof(ctx, "removed %d cached entries", n)
		return nil
	}
	var tbl *table.Table
	var err error
	if flags.Universe {
		u, err := dwapi.GetUniverse(ctx, flags.Endpoint)
		if err != nil {
			return errors.Annotate(err, "failed to fetch %s universe",
				flags.Endpoint)
		}
		tbl = u.Table()
	} else {
		if tbl, err = tickerTable(ctx, flags); err != nil {
			return errors.Annotate(err, "failed to fetch %s for %s",
				flags.Endpoint, flags.Ticker)
		}
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

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
