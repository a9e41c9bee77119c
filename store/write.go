/*
 * write.go, part of msmgo.
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
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	msm "github.com/rmera/msmgo"
	"gonum.org/v1/gonum/mat"
)

// Writer accumulates entries for a store, and writes them when closed.
type Writer struct {
	name     string
	c        container
	writable bool
}

// NewWriter returns a Writer for the store file name. Nothing is written
// until Close is called. The compression is chosen from the extension of name.
func NewWriter(name string) (*Writer, error) {
	if name == "" {
		return nil, fmt.Errorf("msmgo/store.NewWriter: empty file name")
	}
	W := &Writer{name: name, writable: true}
	W.c = container{Format: formatName, Version: formatVersion, Meta: Meta{}, Entries: map[string]entry{}}
	return W, nil
}

func (W *Writer) put(key string, kind Kind, v any) error {
	if !W.writable {
		return fmt.Errorf("msmgo/store.Writer: writer for %s already closed", W.name)
	}
	if key == "" {
		return fmt.Errorf("msmgo/store.Writer: empty key")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("msmgo/store.Writer: can't encode %q: %w", key, err)
	}
	W.c.Entries[key] = entry{Kind: kind.String(), Value: raw}
	return nil
}

// PutArray stores m under key, replacing any previous entry.
func (W *Writer) PutArray(key string, m *mat.Dense) error {
	j, err := encodeArray(m)
	if err != nil {
		return fmt.Errorf("msmgo/store.Writer.PutArray: %q: %w", key, err)
	}
	return W.put(key, KindArray, j)
}

// PutMapping stores the trajectories in c under key, replacing any previous entry.
func (W *Writer) PutMapping(key string, c msm.Collection) error {
	j, err := encodeMapping(c)
	if err != nil {
		return fmt.Errorf("msmgo/store.Writer.PutMapping: %q: %w", key, err)
	}
	return W.put(key, KindMapping, j)
}

// PutPairs stores the index pairs under key, replacing any previous entry.
func (W *Writer) PutPairs(key string, pairs []msm.IndexPair) error {
	if pairs == nil {
		pairs = []msm.IndexPair{}
	}
	return W.put(key, KindPairs, pairs)
}

// SetMeta replaces the metadata table of the store.
func (W *Writer) SetMeta(m Meta) {
	W.c.Meta = make(Meta, len(m))
	for k, v := range m {
		W.c.Meta[k] = maps.Clone(v)
	}
}

// Close writes the store. The data goes first to a temporary file in the
// same directory, which is renamed to the final name only if everything
// was written. On failure the temporary file is removed, and any previous
// file with the same name is left untouched. The Writer can't be used after
// this call.
func (W *Writer) Close() (err error) {
	if !W.writable {
		return fmt.Errorf("msmgo/store.Writer.Close: writer for %s already closed", W.name)
	}
	W.writable = false
	dir, base := filepath.Split(W.name)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("msmgo/store.Writer.Close: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()
	cw, err := newWriter(codecFor(W.name), f)
	if err != nil {
		return fmt.Errorf("msmgo/store.Writer.Close: can't start compression: %w", err)
	}
	if err = json.NewEncoder(cw).Encode(W.c); err != nil {
		cw.Close()
		return fmt.Errorf("msmgo/store.Writer.Close: %w", err)
	}
	if err = cw.Close(); err != nil {
		return fmt.Errorf("msmgo/store.Writer.Close: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("msmgo/store.Writer.Close: %w", err)
	}
	if err = os.Rename(tmp, W.name); err != nil {
		return fmt.Errorf("msmgo/store.Writer.Close: %w", err)
	}
	return nil
}
