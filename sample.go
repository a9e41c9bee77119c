/*
 * sample.go, part of msmgo.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SampleDimension selects nFrames frames from C that trace the coordinate dim. It takes
// nFrames values evenly spaced between the minimum and maximum of that coordinate over
// the whole collection (both included) and, for each value, the frame whose coordinate
// dim is closest to it. The frames are returned in increasing order of the coordinate.
// Ties go to the first frame found, visiting the trajectories in the order of C.IDs().
// It fails if the coordinate has NaN or infinite values.
func SampleDimension(C Collection, dim, nFrames int) ([]IndexPair, error) {
	dims, err := C.Dims()
	if err != nil {
		return nil, Decorate(err, "SampleDimension")
	}
	if dim < 0 || dim >= dims {
		return nil, fmt.Errorf("msmgo/SampleDimension: dimension %d out of range [0,%d)", dim, dims)
	}
	if nFrames < 1 {
		return nil, fmt.Errorf("msmgo/SampleDimension: at least one frame needed, got %d", nFrames)
	}
	ids := C.IDs()
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, id := range ids {
		col := mat.Col(nil, dim, C[id])
		if f := firstNonFinite(col); f >= 0 {
			return nil, fmt.Errorf("msmgo/SampleDimension: non-finite value %g in dimension %d of trajectory %q, frame %d", col[f], dim, string(id), f)
		}
		lo = math.Min(lo, floats.Min(col))
		hi = math.Max(hi, floats.Max(col))
	}
	targets := make([]float64, nFrames)
	if nFrames == 1 {
		targets[0] = lo
	} else {
		floats.Span(targets, lo, hi)
	}
	ret := make([]IndexPair, nFrames)
	best := make([]float64, nFrames)
	for i := range best {
		best[i] = math.Inf(1)
	}
	for _, id := range ids {
		t := C[id]
		r, _ := t.Dims()
		for f := 0; f < r; f++ {
			v := t.At(f, dim)
			for i, target := range targets {
				if d := math.Abs(v - target); d < best[i] {
					best[i] = d
					ret[i] = IndexPair{Traj: id, Frame: f}
				}
			}
		}
	}
	for i, b := range best {
		if math.IsInf(b, 1) {
			return nil, fmt.Errorf("msmgo/SampleDimension: no frame found for value %g", targets[i])
		}
	}
	return ret, nil
}

// NearestFrames returns, for each row of points, the frame of C with the smallest
// Euclidean distance to it. Ties go to the first frame found, visiting the trajectories
// in the order of C.IDs(). A typical use is turning a sampled walk over cluster centers
// into a path of actual frames. It fails if a point has NaN or infinite values, or if
// no frame of C is at a finite distance from some point.
func NearestFrames(C Collection, points *mat.Dense) ([]IndexPair, error) {
	dims, err := C.Dims()
	if err != nil {
		return nil, Decorate(err, "NearestFrames")
	}
	if points == nil {
		return nil, fmt.Errorf("msmgo/NearestFrames: nil points")
	}
	np, pc := points.Dims()
	if pc != dims {
		return nil, fmt.Errorf("msmgo/NearestFrames: points have %d dimensions, collection has %d", pc, dims)
	}
	ids := C.IDs()
	ret := make([]IndexPair, np)
	for i := 0; i < np; i++ {
		p := points.RawRowView(i)
		if f := firstNonFinite(p); f >= 0 {
			return nil, fmt.Errorf("msmgo/NearestFrames: non-finite value %g in point %d", p[f], i)
		}
		best := math.Inf(1)
		for _, id := range ids {
			t := C[id]
			r, _ := t.Dims()
			for f := 0; f < r; f++ {
				if d := floats.Distance(p, t.RawRowView(f), 2); d < best {
					best = d
					ret[i] = IndexPair{Traj: id, Frame: f}
				}
			}
		}
		if math.IsInf(best, 1) {
			return nil, fmt.Errorf("msmgo/NearestFrames: no frame at a finite distance from point %d", i)
		}
	}
	return ret, nil
}

//firstNonFinite returns the index of the first NaN or infinite value in v, or -1.
func firstNonFinite(v []float64) int {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}
