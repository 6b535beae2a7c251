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
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"

	"github.com/datawiserai/datawiser-go/dwdb"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://api.datawiser.ai/v1"

// Endpoint names recognized by the API.
const (
	EndpointFreeFloat         = "free-float"
	EndpointFreeFloatEvents   = "free-float-events"
	EndpointSharesOutstanding = "shares-outstanding"
	EndpointReference         = "reference"
)

// Endpoints is the list of all valid endpoint names.
var Endpoints = []string{
	EndpointFreeFloat,
	EndpointFreeFloatEvents,
	EndpointSharesOutstanding,
	EndpointReference,
}

// ResolveEndpoint accepts both the canonical hyphenated endpoint name and its
// underscore alias, e.g. both "free-float" and "free_float".
func ResolveEndpoint(name string) string {
	hyphenated := strings.ReplaceAll(name, "_", "-")
	for _, ep := range Endpoints {
		if hyphenated == ep {
			return ep
		}
	}
	return name
}

// ValidEndpoint checks that name resolves to a known endpoint.
func ValidEndpoint(name string) bool {
	name = ResolveEndpoint(name)
	for _, ep := range Endpoints {
		if name == ep {
			return true
		}
	}
	return false
}

// Options are the optional client settings fixed at construction.
type Options struct {
	CacheDir string // cache root; default: ~/.datawiserai/cache
	NoCache  bool   // bypass the local cache entirely
}

// Client for querying the Datawiser API.
type Client struct {
	baseURL  string // the base URL of the server
	apiKey   string // your very own secret key
	cache    *dwdb.Store
	useCache bool
}

// newClient creates a new client.
func newClient(baseURL, apiKey string, opts Options) *Client {
	dir := opts.CacheDir
	if dir == "" {
		dir = dwdb.DefaultDir()
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		cache:    dwdb.NewStore(dir),
		useCache: !opts.NoCache,
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client with default options based on the API key
// and injects it into the context.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return UseClientOptions(ctx, apiKey, Options{})
}

// UseClientOptions is UseClient with explicit cache options.
func UseClientOptions(ctx context.Context, apiKey string, opts Options) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiKey, opts))
}

// header returns the common request headers carrying the API credential.
func (c *Client) header() http.Header {
	return http.Header{
		"X-Api-Key": []string{c.apiKey},
		"Accept":    []string{"application/json"},
	}
}

// ManifestEntry is one security in an endpoint's manifest.
type ManifestEntry struct {
	Ticker        string `json:"ticker"`
	SecurityID    string `json:"security_id"`
	LastUpdate    string `json:"last_update"`
	DocLastUpdate string `json:"doc_last_update,omitempty"`
}

// Manifest is the per-endpoint freshness document: the set of available
// tickers, each with the timestamp of its latest server-side update.
type Manifest map[string]ManifestEntry

// fetchManifest downloads the current manifest for the endpoint.
func (c *Client) fetchManifest(ctx context.Context, endpoint string) (Manifest, error) {
	var m Manifest
	uri := c.baseURL + "/manifest/" + endpoint + "/updates"
	if err := fetch.FetchJSON(ctx, uri, &m, nil, c.header()); err != nil {
		return nil, errors.Annotate(err, "failed to fetch %s manifest", endpoint)
	}
	return m, nil
}

// fetchRaw downloads the raw JSON payload for a single ticker.
func (c *Client) fetchRaw(ctx context.Context, endpoint, ticker string) (json.RawMessage, error) {
	var data json.RawMessage
	uri := c.baseURL + "/" + endpoint + "/" + ticker
	if err := fetch.FetchJSON(ctx, uri, &data, nil, c.header()); err != nil {
		return nil, errors.Annotate(err, "failed to fetch %s/%s", endpoint, ticker)
	}
	logging.Infof(ctx, "Datawiser: fetched %s/%s (%d bytes)",
		endpoint, ticker, len(data))
	return data, nil
}

// fetchPayload implements one logical request: manifest check, ticker
// membership, then the cache-aware payload read.
func fetchPayload(ctx context.Context, endpoint, ticker string) (json.RawMessage, error) {
	endpoint = ResolveEndpoint(endpoint)
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	manifest, err := c.fetchManifest(ctx, endpoint)
	if err != nil {
		return nil, errors.Annotate(err, "manifest check failed for %s", endpoint)
	}
	entry, ok := manifest[ticker]
	if !ok {
		return nil, &TickerNotFoundError{Ticker: ticker, Endpoint: endpoint}
	}
	if !c.useCache {
		return c.fetchRaw(ctx, endpoint, ticker)
	}
	return c.cache.GetOrFetch(ctx, endpoint, ticker, entry.LastUpdate,
		func() (json.RawMessage, error) {
			return c.fetchRaw(ctx, endpoint, ticker)
		})
}

// GetUniverse fetches the endpoint's manifest and returns the set of
// available tickers.
func GetUniverse(ctx context.Context, endpoint string) (*Universe, error) {
	endpoint = ResolveEndpoint(endpoint)
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	manifest, err := c.fetchManifest(ctx, endpoint)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch %s universe", endpoint)
	}
	return NewUniverse(endpoint, manifest), nil
}

// GetFreeFloat fetches free-float data for ticker.
func GetFreeFloat(ctx context.Context, ticker string) (*FreeFloat, error) {
	data, err := fetchPayload(ctx, EndpointFreeFloat, ticker)
	if err != nil {
		return nil, err
	}
	return ParseFreeFloat(data)
}

// GetFreeFloatEvents fetches the flat (summary) view of free-float events
// for ticker: one aggregate record per event date plus one flattened row per
// owner per date.
func GetFreeFloatEvents(ctx context.Context, ticker string) (*FreeFloatEvents, error) {
	data, err := fetchPayload(ctx, EndpointFreeFloatEvents, ticker)
	if err != nil {
		return nil, err
	}
	return ParseFreeFloatEvents(data)
}

// GetFreeFloatEventsDetail fetches the full nested ownership drill-down of
// free-float events for ticker. It shares the payload (and therefore the
// cache entry) with GetFreeFloatEvents.
func GetFreeFloatEventsDetail(ctx context.Context, ticker string) (*FreeFloatEventsDetail, error) {
	data, err := fetchPayload(ctx, EndpointFreeFloatEvents, ticker)
	if err != nil {
		return nil, err
	}
	return ParseFreeFloatEventsDetail(data)
}

// GetSharesOutstanding fetches shares-outstanding data for ticker.
func GetSharesOutstanding(ctx context.Context, ticker string) (*SharesOutstanding, error) {
	data, err := fetchPayload(ctx, EndpointSharesOutstanding, ticker)
	if err != nil {
		return nil, err
	}
	return ParseSharesOutstanding(data)
}

// GetReference fetches reference / identifier data for ticker.
func GetReference(ctx context.Context, ticker string) (*Reference, error) {
	data, err := fetchPayload(ctx, EndpointReference, ticker)
	if err != nil {
		return nil, err
	}
	return ParseReference(data)
}

// ClearCache removes cached responses and returns the number of files
// deleted. When endpoint is non-empty only that endpoint's cache is cleared,
// otherwise the entire cache is wiped.
func ClearCache(ctx context.Context, endpoint string) (int, error) {
	c := GetClient(ctx)
	if c == nil {
		return 0, errors.Reason("no client in context")
	}
	if endpoint != "" {
		endpoint = ResolveEndpoint(endpoint)
	}
	n, err := c.cache.Clear(endpoint)
	if err != nil {
		return n, errors.Annotate(err, "failed to clear cache")
	}
	logging.Infof(ctx, "cleared %d cached entries", n)
	return n, nil
}
