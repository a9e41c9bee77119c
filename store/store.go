/*
 * store.go, part of msmgo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	msm "github.com/rmera/msmgo"
)

const (
	formatName    = "msmstore"
	formatVersion = 1
)

// Meta is the metadata table of a store: one row per trajectory, with string columns.
type Meta map[msm.TrajID]map[string]string

type entry struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

type container struct {
	Format  string           `json:"format"`
	Version int              `json:"version"`
	Meta    Meta             `json:"meta"`
	Entries map[string]entry `json:"entries"`
}

// Store is an opened store. The entries are decoded only when requested,
// so a damaged entry doesn't prevent reading the others.
type Store struct {
	name    string
	meta    Meta
	entries map[string]entry
}

// Open reads the store in the file name. It returns a StoreUnavailableError if the
// file can't be opened, and a DeserializationError if its contents are not a store.
func Open(name string) (*Store, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, msm.NewStoreUnavailableError(name, err, "Open")
	}
	defer f.Close()
	r, err := newReader(codecFor(name), bufio.NewReader(f))
	if err != nil {
		return nil, msm.NewStoreUnavailableError(name, fmt.Errorf("can't start %s decompression: %w", codecFor(name), err), "Open")
	}
	defer r.Close()
	var c container
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		var de *decompressError
		if errors.As(err, &de) {
			return nil, msm.NewStoreUnavailableError(name, fmt.Errorf("can't decompress (%s): %w", codecFor(name), de.err), "Open")
		}
		return nil, msm.NewDeserializationError(name, "", err, "Open")
	}
	if c.Format != formatName {
		return nil, msm.NewDeserializationError(name, "", fmt.Errorf("format %q is not %q", c.Format, formatName), "Open")
	}
	if c.Version < 1 || c.Version > formatVersion {
		return nil, msm.NewDeserializationError(name, "", fmt.Errorf("unsupported version %d", c.Version), "Open")
	}
	S := &Store{name: name, meta: c.Meta, entries: c.Entries}
	if S.meta == nil {
		S.meta = Meta{}
	}
	if S.entries == nil {
		S.entries = map[string]entry{}
	}
	return S, nil
}

// Name returns the file name of the store.
func (S *Store) Name() string {
	return S.name
}

// Keys returns the names of the entries, sorted.
func (S *Store) Keys() []string {
	return slices.Sorted(maps.Keys(S.entries))
}

// Meta returns a copy of the metadata table.
func (S *Store) Meta() Meta {
	ret := make(Meta, len(S.meta))
	for k, v := range S.meta {
		ret[k] = maps.Clone(v)
	}
	return ret
}

// Get decodes and returns the entry key. It returns a NotFoundError if there is no such
// entry, and a DeserializationError if the entry can't be decoded.
func (S *Store) Get(key string) (Value, error) {
	e, ok := S.entries[key]
	if !ok {
		return Value{}, msm.NewNotFoundError(S.name, key, "Get")
	}
	kind, err := kindFromString(e.Kind)
	if err != nil {
		return Value{}, msm.NewDeserializationError(S.name, key, err, "Get")
	}
	V, err := decodeValue(kind, e.Value)
	if err != nil {
		return Value{}, msm.NewDeserializationError(S.name, key, err, "Get")
	}
	V.store = S.name
	V.key = key
	return V, nil
}

// Dataset returns the metadata table and the trajectory mapping stored under key.
func (S *Store) Dataset(key string) (Meta, msm.Collection, error) {
	V, err := S.Get(key)
	if err != nil {
		return nil, nil, msm.Decorate(err, "Dataset")
	}
	c, err := V.Mapping()
	if err != nil {
		return nil, nil, msm.Decorate(err, "Dataset")
	}
	return S.Meta(), c, nil
}

// Load opens the store storeName and returns its entry key.
func Load(storeName, key string) (Value, error) {
	S, err := Open(storeName)
	if err != nil {
		return Value{}, msm.Decorate(err, "Load")
	}
	V, err := S.Get(key)
	return V, msm.Decorate(err, "Load")
}

// LoadDataset opens the store storeName and returns its metadata table and
// the trajectory mapping in key.
func LoadDataset(storeName, key string) (Meta, msm.Collection, error) {
	S, err := Open(storeName)
	if err != nil {
		return nil, nil, msm.Decorate(err, "LoadDataset")
	}
	m, c, err := S.Dataset(key)
	return m, c, msm.Decorate(err, "LoadDataset")
}
