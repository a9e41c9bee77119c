/*
 * counts.go, part of msmgo.
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
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// TransitionCounts counts the transitions between states in the sequences given, at the
// given lag time (lag=1 counts transitions between consecutive frames). The states can be
// any ordered type. They are mapped to rows/columns of the returned matrix in increasing
// order, and the mapping is returned as the second value. C[i][j] is the number of times the
// state mapped to i was followed, lag frames later, by the state mapped to j.
// Transitions are never counted across different sequences.
func TransitionCounts[T cmp.Ordered](seqs [][]T, lag int) (*mat.Dense, map[T]int, error) {
	if len(seqs) == 0 {
		return nil, nil, fmt.Errorf("msmgo/TransitionCounts: no sequences given")
	}
	if lag < 1 {
		return nil, nil, fmt.Errorf("msmgo/TransitionCounts: lag must be at least 1, got %d", lag)
	}
	states := make([]T, 0)
	for _, s := range seqs {
		states = append(states, s...)
	}
	slices.Sort(states)
	states = slices.Compact(states)
	if len(states) == 0 {
		return nil, nil, fmt.Errorf("msmgo/TransitionCounts: all sequences are empty")
	}
	mapping := make(map[T]int, len(states))
	for i, v := range states {
		mapping[v] = i
	}
	C := mat.NewDense(len(states), len(states), nil)
	for _, s := range seqs {
		for t := 0; t+lag < len(s); t++ {
			i, j := mapping[s[t]], mapping[s[t+lag]]
			C.Set(i, j, C.At(i, j)+1)
		}
	}
	return C, mapping, nil
}

// denseCounts is TransitionCounts for labels that are already dense state indexes
// in [0, nstates).
func denseCounts(seqs [][]int, nstates, lag int) *mat.Dense {
	C := mat.NewDense(nstates, nstates, nil)
	for _, s := range seqs {
		for t := 0; t+lag < len(s); t++ {
			C.Set(s[t], s[t+lag], C.At(s[t], s[t+lag])+1)
		}
	}
	return C
}
