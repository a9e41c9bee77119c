/*
 * ttraj.go, part of msmgo.
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

package msm

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// TrajID identifies a trajectory in a Collection. Integer identifiers
// are stored in their decimal form, see IntID.
type TrajID string

// IntID returns the TrajID for the integer identifier i.
func IntID(i int) TrajID {
	return TrajID(strconv.Itoa(i))
}

// Collection maps trajectory identifiers to their projected coordinates,
// one frame per row. All trajectories must have the same number of columns
// (dimensions), while the number of frames can vary.
type Collection map[TrajID]*mat.Dense

// IDs returns the identifiers of the collection, sorted. Identifiers that are
// integers are sorted numerically and placed before the rest.
func (C Collection) IDs() []TrajID {
	ids := make([]TrajID, 0, len(C))
	for k := range C {
		ids = append(ids, k)
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}

//intID returns the integer value of id, only if id is the canonical
//decimal form of that integer ("3", but not "03" or "+3").
func intID(id TrajID) (int, bool) {
	i, err := strconv.Atoi(string(id))
	if err != nil || strconv.Itoa(i) != string(id) {
		return 0, false
	}
	return i, true
}

func compareIDs(a, b TrajID) int {
	ia, oka := intID(a)
	ib, okb := intID(b)
	switch {
	case oka && okb:
		return cmp.Compare(ia, ib)
	case oka:
		return -1
	case okb:
		return 1
	}
	return cmp.Compare(a, b)
}

// Dims returns the number of dimensions shared by all the trajectories
// in the collection. It returns an error if the collection is empty, if
// some trajectory is nil, or if the trajectories differ in their dimensions.
func (C Collection) Dims() (int, error) {
	if len(C) == 0 {
		return 0, fmt.Errorf("msmgo/Collection.Dims: empty collection")
	}
	dims := -1
	for _, id := range C.IDs() {
		t := C[id]
		if t == nil {
			return 0, fmt.Errorf("msmgo/Collection.Dims: nil trajectory %q", string(id))
		}
		_, c := t.Dims()
		if dims == -1 {
			dims = c
		} else if c != dims {
			return 0, fmt.Errorf("msmgo/Collection.Dims: trajectory %q has %d dimensions, expected %d", string(id), c, dims)
		}
	}
	return dims, nil
}

// Frames returns the total number of frames in the collection.
func (C Collection) Frames() int {
	n := 0
	for _, t := range C {
		if t != nil {
			r, _ := t.Dims()
			n += r
		}
	}
	return n
}

// Concatenate returns the density field of the collection: a matrix with all
// the frames of all the trajectories, stacked in the order given by IDs.
func (C Collection) Concatenate() (*mat.Dense, error) {
	dims, err := C.Dims()
	if err != nil {
		return nil, err
	}
	ret := mat.NewDense(C.Frames(), dims, nil)
	row := 0
	for _, id := range C.IDs() {
		t := C[id]
		r, _ := t.Dims()
		ret.Slice(row, row+r, 0, dims).(*mat.Dense).Copy(t)
		row += r
	}
	return ret, nil
}

// IndexPair identifies one frame in one trajectory.
type IndexPair struct {
	Traj  TrajID
	Frame int
}

func (P IndexPair) String() string {
	return fmt.Sprintf("(%s, %d)", string(P.Traj), P.Frame)
}

// MarshalJSON encodes the pair as a 2-element array. Identifiers that are the
// canonical decimal form of an integer are written as JSON numbers, the rest
// as strings, so decoding gives back the same identifier.
func (P IndexPair) MarshalJSON() ([]byte, error) {
	if i, ok := intID(P.Traj); ok {
		return json.Marshal([2]int{i, P.Frame})
	}
	return json.Marshal([2]any{string(P.Traj), P.Frame})
}

// UnmarshalJSON decodes a 2-element array. The trajectory identifier can
// be either a JSON string or an integer number.
func (P *IndexPair) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("index pair must have 2 elements, got %d", len(raw))
	}
	var id string
	if err := json.Unmarshal(raw[0], &id); err != nil {
		var n int
		if err2 := json.Unmarshal(raw[0], &n); err2 != nil {
			return fmt.Errorf("trajectory identifier must be a string or an integer: %s", string(raw[0]))
		}
		id = strconv.Itoa(n)
	}
	var frame int
	if err := json.Unmarshal(raw[1], &frame); err != nil {
		return fmt.Errorf("frame index must be an integer: %s", string(raw[1]))
	}
	P.Traj = TrajID(id)
	P.Frame = frame
	return nil
}

// SampledPath is an ordered sequence of frames taken from a Collection.
// It can't be modified after it is built. It implements plotter.XYer from
// gonum/plot, on its first two dimensions.
type SampledPath struct {
	rows [][]float64
	dims int
}

// BuildSampledPath returns the path formed by the frames in indices, in the same order.
// It fails with an UnknownTrajectoryError if any of the pairs refers to a trajectory absent
// in C, or FrameOutOfRangeError if a frame index is not a valid row in its trajectory.
func BuildSampledPath(C Collection, indices []IndexPair) (*SampledPath, error) {
	S := &SampledPath{rows: make([][]float64, 0, len(indices)), dims: -1}
	for i, p := range indices {
		t, ok := C[p.Traj]
		if !ok || t == nil {
			return nil, NewUnknownTrajectoryError(p.Traj, i, "BuildSampledPath")
		}
		r, c := t.Dims()
		if p.Frame < 0 || p.Frame >= r {
			return nil, NewFrameOutOfRangeError(p.Traj, p.Frame, r, i, "BuildSampledPath")
		}
		if S.dims == -1 {
			S.dims = c
		} else if c != S.dims {
			return nil, fmt.Errorf("msmgo/BuildSampledPath: trajectory %q has %d dimensions, expected %d", string(p.Traj), c, S.dims)
		}
		S.rows = append(S.rows, mat.Row(nil, p.Frame, t))
	}
	if S.dims == -1 {
		S.dims = 0
	}
	return S, nil
}

// Len returns the number of frames in the path.
func (S *SampledPath) Len() int {
	return len(S.rows)
}

// Dims returns the number of dimensions of each frame, or 0 for an empty path.
func (S *SampledPath) Dims() int {
	return S.dims
}

// Row returns a copy of the i-th frame of the path.
func (S *SampledPath) Row(i int) []float64 {
	return slices.Clone(S.rows[i])
}

// XY returns the first two coordinates of the i-th frame.
func (S *SampledPath) XY(i int) (float64, float64) {
	return S.rows[i][0], S.rows[i][1]
}

// Dense returns the path as a matrix, one frame per row. It returns nil
// for an empty path.
func (S *SampledPath) Dense() *mat.Dense {
	if len(S.rows) == 0 {
		return nil
	}
	ret := mat.NewDense(len(S.rows), S.dims, nil)
	for i, v := range S.rows {
		ret.SetRow(i, v)
	}
	return ret
}
