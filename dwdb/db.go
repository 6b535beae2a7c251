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

// Package dwdb implements the local response cache. Each (endpoint, ticker)
// pair maps to one gzipped JSON file holding the raw API payload together
// with the manifest timestamp it was fetched under:
//
//	root/
//	  free-float/
//	    OLP.json.gz   # {"last_update": "...", "cached_at": "...", "data": {...}}
//	  shares-outstanding/
//	    OLP.json.gz
//
// An entry is served only while its stored timestamp equals the current
// manifest timestamp; any mismatch or unreadable file is a miss.
package dwdb

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

const entrySuffix = ".json.gz"

// DefaultDir is the default cache root directory, ~/.datawiserai/cache.
func DefaultDir() string {
	return filepath.Join(os.Getenv("HOME"), ".datawiserai", "cache")
}

// Store is a file-backed cache of raw API responses rooted at a single
// directory. The zero value is not usable; create it with NewStore.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. The directory is created lazily on
// the first write.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// entry is the on-disk envelope of a single cached response.
type entry struct {
	LastUpdate string          `json:"last_update"`
	CachedAt   *Time           `json:"cached_at"`
	Data       json.RawMessage `json:"data"`
}

func (s *Store) entryPath(endpoint, ticker string) string {
	return filepath.Join(s.root, endpoint, ticker+entrySuffix)
}

func readEntry(fileName string, e *entry) error {
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Annotate(err, "failed to open file for reading: '%s'", fileName)
	}
	defer f.Close()
	z, err := gzip.NewReader(f)
	if err != nil {
		return errors.Annotate(err, "failed to read gzip header of '%s'", fileName)
	}
	defer z.Close()
	if err := json.NewDecoder(z).Decode(e); err != nil {
		return errors.Annotate(err, "failed to read from '%s'", fileName)
	}
	return nil
}

// writeEntry writes e through a temp file and renames it into place, so a
// concurrent reader never observes a torn entry.
func writeEntry(fileName string, e *entry) error {
	dir := filepath.Dir(fileName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Annotate(err, "failed to create directory '%s'", dir)
	}
	f, err := os.CreateTemp(dir, filepath.Base(fileName)+".tmp")
	if err != nil {
		return errors.Annotate(err, "failed to create temp file in '%s'", dir)
	}
	tmpName := f.Name()
	z := gzip.NewWriter(f)
	if err := json.NewEncoder(z).Encode(e); err != nil {
		z.Close()
		f.Close()
		os.Remove(tmpName)
		return errors.Annotate(err, "failed to write to '%s'", tmpName)
	}
	if err := z.Close(); err != nil {
		f.Close()
		os.Remove(tmpName)
		return errors.Annotate(err, "failed to flush gzip stream to '%s'", tmpName)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Annotate(err, "failed to close '%s'", tmpName)
	}
	if err := os.Rename(tmpName, fileName); err != nil {
		os.Remove(tmpName)
		return errors.Annotate(err, "failed to rename '%s' to '%s'", tmpName, fileName)
	}
	return nil
}

// Get returns the cached payload and its stored manifest timestamp for the
// (endpoint, ticker) pair. A missing or unreadable entry is a cache miss.
func (s *Store) Get(endpoint, ticker string) (json.RawMessage, string, bool) {
	var e entry
	if err := readEntry(s.entryPath(endpoint, ticker), &e); err != nil {
		return nil, "", false
	}
	if e.Data == nil {
		return nil, "", false
	}
	return e.Data, e.LastUpdate, true
}

// Put stores the payload under the (endpoint, ticker) pair, stamped with the
// manifest timestamp it was fetched under.
func (s *Store) Put(endpoint, ticker string, data json.RawMessage, lastUpdate string) error {
	now := Time(time.Now().UTC())
	e := entry{LastUpdate: lastUpdate, CachedAt: &now, Data: data}
	err := writeEntry(s.entryPath(endpoint, ticker), &e)
	return errors.Annotate(err, "failed to cache %s/%s", endpoint, ticker)
}

// GetOrFetch returns the cached payload for the (endpoint, ticker) pair when
// its stored timestamp equals lastUpdate, and otherwise calls fetch exactly
// once and overwrites the entry. A fetch failure propagates unmodified and
// leaves the entry untouched; a stale entry is never returned.
func (s *Store) GetOrFetch(ctx context.Context, endpoint, ticker, lastUpdate string,
	fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	if data, cachedTS, ok := s.Get(endpoint, ticker); ok && cachedTS == lastUpdate {
		logging.Debugf(ctx, "cache hit for %s/%s (last_update=%s)",
			endpoint, ticker, lastUpdate)
		return data, nil
	}
	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := s.Put(endpoint, ticker, data, lastUpdate); err != nil {
		return nil, err
	}
	logging.Debugf(ctx, "cached %s/%s (last_update=%s)", endpoint, ticker, lastUpdate)
	return data, nil
}

// Clear removes cached entries and returns the number of files removed. When
// endpoint is non-empty only that endpoint's entries are removed, otherwise
// the entire cache is wiped. Clearing a missing directory is not an error.
func (s *Store) Clear(endpoint string) (int, error) {
	if endpoint != "" {
		return clearDir(filepath.Join(s.root, endpoint))
	}
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Annotate(err, "failed to read cache root '%s'", s.root)
	}
	removed := 0
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		n, err := clearDir(filepath.Join(s.root, d.Name()))
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func clearDir(dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Annotate(err, "failed to read cache directory '%s'", dir)
	}
	removed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), entrySuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, f.Name())); err != nil {
			return removed, errors.Annotate(err, "failed to remove '%s'", f.Name())
		}
		removed++
	}
	os.Remove(dir) // best effort, fails when non-empty
	return removed, nil
}
