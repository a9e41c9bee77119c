/*
 * value.go, part of msmgo.
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

	msm "github.com/rmera/msmgo"
	"gonum.org/v1/gonum/mat"
)

// Kind tells which of the possible values a Value holds.
type Kind int

const (
	KindArray Kind = iota + 1
	KindMapping
	KindPairs
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindMapping:
		return "mapping"
	case KindPairs:
		return "pairs"
	default:
		return "unknown"
	}
}

func kindFromString(s string) (Kind, error) {
	for _, k := range []Kind{KindArray, KindMapping, KindPairs} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// Value is a loaded entry. It holds exactly one of an array, a mapping of
// trajectories or a list of index pairs. The caller picks the accessor
// according to what it expects the key to contain.
type Value struct {
	kind    Kind
	array   *mat.Dense
	mapping msm.Collection
	pairs   []msm.IndexPair
	//for the errors
	store string
	key   string
}

func (V Value) Kind() Kind {
	return V.kind
}

func (V Value) wrongKind(want Kind, caller string) error {
	return msm.NewDeserializationError(V.store, V.key, fmt.Errorf("expected %s, entry holds %s", want, V.kind), caller)
}

// Array returns the array held by V, or a DeserializationError if V is not an array.
func (V Value) Array() (*mat.Dense, error) {
	if V.kind != KindArray {
		return nil, V.wrongKind(KindArray, "Value.Array")
	}
	return V.array, nil
}

// Mapping returns the trajectory collection held by V, or a DeserializationError if V is not a mapping.
func (V Value) Mapping() (msm.Collection, error) {
	if V.kind != KindMapping {
		return nil, V.wrongKind(KindMapping, "Value.Mapping")
	}
	return V.mapping, nil
}

// Pairs returns the index pairs held by V, or a DeserializationError if V is not a list of pairs.
func (V Value) Pairs() ([]msm.IndexPair, error) {
	if V.kind != KindPairs {
		return nil, V.wrongKind(KindPairs, "Value.Pairs")
	}
	return V.pairs, nil
}

//JSON shapes

type jsonArray struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

func encodeArray(m *mat.Dense) (jsonArray, error) {
	if m == nil {
		return jsonArray{}, fmt.Errorf("nil array")
	}
	r, c := m.Dims()
	j := jsonArray{Rows: r, Cols: c, Data: make([]float64, 0, r*c)}
	for i := 0; i < r; i++ {
		j.Data = append(j.Data, m.RawRowView(i)...)
	}
	return j, nil
}

func (j jsonArray) dense() (*mat.Dense, error) {
	if j.Rows <= 0 || j.Cols <= 0 {
		return nil, fmt.Errorf("array must have positive dimensions, got %dx%d", j.Rows, j.Cols)
	}
	if len(j.Data) != j.Rows*j.Cols {
		return nil, fmt.Errorf("array of %dx%d has %d elements", j.Rows, j.Cols, len(j.Data))
	}
	return mat.NewDense(j.Rows, j.Cols, j.Data), nil
}

func encodeMapping(c msm.Collection) (map[msm.TrajID]jsonArray, error) {
	if c == nil {
		return nil, fmt.Errorf("nil mapping")
	}
	ret := make(map[msm.TrajID]jsonArray, len(c))
	for id, t := range c {
		j, err := encodeArray(t)
		if err != nil {
			return nil, fmt.Errorf("trajectory %q: %w", string(id), err)
		}
		ret[id] = j
	}
	return ret, nil
}

//decodeValue decodes raw according to kind. It does not check that the
//trajectories of a mapping share their dimensions, nor that pairs are valid.
func decodeValue(kind Kind, raw json.RawMessage) (Value, error) {
	V := Value{kind: kind}
	switch kind {
	case KindArray:
		var j jsonArray
		if err := json.Unmarshal(raw, &j); err != nil {
			return V, err
		}
		m, err := j.dense()
		if err != nil {
			return V, err
		}
		V.array = m
	case KindMapping:
		var j map[msm.TrajID]jsonArray
		if err := json.Unmarshal(raw, &j); err != nil {
			return V, err
		}
		if j == nil {
			return V, fmt.Errorf("null mapping")
		}
		V.mapping = make(msm.Collection, len(j))
		for id, a := range j {
			m, err := a.dense()
			if err != nil {
				return V, fmt.Errorf("trajectory %q: %w", string(id), err)
			}
			V.mapping[id] = m
		}
	case KindPairs:
		var p []msm.IndexPair
		if err := json.Unmarshal(raw, &p); err != nil {
			return V, err
		}
		if p == nil {
			p = []msm.IndexPair{}
		}
		V.pairs = p
	default:
		return V, fmt.Errorf("unknown kind %d", kind)
	}
	return V, nil
}
