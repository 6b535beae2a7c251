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

// Package dwapi implements the client for the Datawiser financial-data API:
// free float, free-float ownership events, shares outstanding and reference
// data, keyed by ticker.
//
// Every endpoint exposes a manifest listing its available tickers, each with
// a last_update timestamp. That timestamp is the freshness oracle for the
// local cache: a per-ticker payload fetched under timestamp T is served from
// disk until the manifest reports a different timestamp, at which point the
// next request refetches it. The manifest itself is fetched on every logical
// request and never cached.
//
// The client is carried in a context.Context (see UseClient), so the
// endpoint operations are plain functions:
//
//	ctx = dwapi.UseClient(ctx, apiKey)
//	ff, err := dwapi.GetFreeFloat(ctx, "OLP")
//	latest := ff.Latest()
//
// Failures are never retried and a stale cache entry is never substituted
// for a failed fetch.
package dwapi
