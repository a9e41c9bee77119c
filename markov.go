/*
 * markov.go, part of msmgo.
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
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MarkovStateModel is a discrete Markov chain over the states produced by an Assigner
// (usually a fitted clustering). It implements Model. The observations it samples
// are the mean coordinates of the frames assigned to each state.
type MarkovStateModel struct {
	assigner Assigner
	nstates  int
	lag      int
	rng      *rand.Rand
	counts   *mat.Dense
	trans    *mat.Dense
	centers  *mat.Dense
	//states with no frames assigned in the fitting data
	empty []bool
}

// NewMarkovStateModel returns a model with nstates states assigned by a, with transitions
// counted at the given lag. If a seed is given, it is used for the random number generator
// employed by Sample. Otherwise the seed is 0.
func NewMarkovStateModel(a Assigner, nstates, lag int, seed ...int64) (*MarkovStateModel, error) {
	if a == nil {
		return nil, fmt.Errorf("msmgo/NewMarkovStateModel: nil assigner")
	}
	if nstates < 1 {
		return nil, fmt.Errorf("msmgo/NewMarkovStateModel: at least one state needed, got %d", nstates)
	}
	if lag < 1 {
		return nil, fmt.Errorf("msmgo/NewMarkovStateModel: lag must be at least 1, got %d", lag)
	}
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	}
	return &MarkovStateModel{assigner: a, nstates: nstates, lag: lag, rng: rand.New(rand.NewSource(s))}, nil
}

func (M *MarkovStateModel) assign(data []*mat.Dense, caller string) ([][]int, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("msmgo/MarkovStateModel.%s: no data given", caller)
	}
	labels := make([][]int, 0, len(data))
	dims := -1
	for i, d := range data {
		if d == nil {
			return nil, 0, fmt.Errorf("msmgo/MarkovStateModel.%s: nil trajectory %d", caller, i)
		}
		_, c := d.Dims()
		if dims == -1 {
			dims = c
		} else if c != dims {
			return nil, 0, fmt.Errorf("msmgo/MarkovStateModel.%s: trajectory %d has %d dimensions, expected %d", caller, i, c, dims)
		}
		l, err := M.assigner.Predict(d)
		if err != nil {
			return nil, 0, fmt.Errorf("msmgo/MarkovStateModel.%s: can't assign trajectory %d: %w", caller, i, err)
		}
		if r, _ := d.Dims(); len(l) != r {
			return nil, 0, fmt.Errorf("msmgo/MarkovStateModel.%s: %d labels for %d frames in trajectory %d", caller, len(l), r, i)
		}
		for _, v := range l {
			if v < 0 || v >= M.nstates {
				return nil, 0, fmt.Errorf("msmgo/MarkovStateModel.%s: state %d out of range [0,%d)", caller, v, M.nstates)
			}
		}
		labels = append(labels, l)
	}
	return labels, dims, nil
}

// Fit assigns every frame in data to a state, counts the transitions and estimates the
// transition matrix by normalizing each row of the counts. States that are never left
// get a self-transition probability of 1.
func (M *MarkovStateModel) Fit(data []*mat.Dense) error {
	labels, dims, err := M.assign(data, "Fit")
	if err != nil {
		return err
	}
	M.counts = denseCounts(labels, M.nstates, M.lag)
	M.trans = mat.NewDense(M.nstates, M.nstates, nil)
	for i := 0; i < M.nstates; i++ {
		row := mat.Row(nil, i, M.counts)
		sum := floats.Sum(row)
		if sum == 0 {
			M.trans.Set(i, i, 1)
			continue
		}
		floats.Scale(1/sum, row)
		M.trans.SetRow(i, row)
	}
	M.centers = mat.NewDense(M.nstates, dims, nil)
	pop := make([]float64, M.nstates)
	for i, l := range labels {
		for frame, s := range l {
			c := M.centers.RawRowView(s)
			floats.Add(c, data[i].RawRowView(frame))
			pop[s]++
		}
	}
	M.empty = make([]bool, M.nstates)
	for s, n := range pop {
		if n == 0 {
			M.empty[s] = true
			continue
		}
		floats.Scale(1/n, M.centers.RawRowView(s))
	}
	return nil
}

func (M *MarkovStateModel) fitted(caller string) error {
	if M.trans == nil {
		return fmt.Errorf("msmgo/MarkovStateModel.%s: model not fitted", caller)
	}
	return nil
}

// Score returns the log-likelihood of the state sequences obtained by assigning data.
// The result is -Inf if data contains a transition with zero probability.
func (M *MarkovStateModel) Score(data []*mat.Dense) (float64, error) {
	if err := M.fitted("Score"); err != nil {
		return 0, err
	}
	labels, _, err := M.assign(data, "Score")
	if err != nil {
		return 0, err
	}
	var ll float64
	for _, s := range labels {
		for t := 0; t+M.lag < len(s); t++ {
			ll += math.Log(M.trans.At(s[t], s[t+M.lag]))
		}
	}
	return ll, nil
}

// Sample walks the Markov chain for nSteps steps starting from initState. It returns the
// observations (the center of each visited state, one per row) and the visited states.
// If initObs is not nil, it replaces the first observation.
func (M *MarkovStateModel) Sample(nSteps int, initState int, initObs []float64) (*mat.Dense, []int, error) {
	if err := M.fitted("Sample"); err != nil {
		return nil, nil, err
	}
	if nSteps < 1 {
		return nil, nil, fmt.Errorf("msmgo/MarkovStateModel.Sample: at least one step needed, got %d", nSteps)
	}
	if initState < 0 || initState >= M.nstates {
		return nil, nil, fmt.Errorf("msmgo/MarkovStateModel.Sample: initial state %d out of range [0,%d)", initState, M.nstates)
	}
	_, dims := M.centers.Dims()
	if initObs != nil && len(initObs) != dims {
		return nil, nil, fmt.Errorf("msmgo/MarkovStateModel.Sample: initial observation has %d dimensions, expected %d", len(initObs), dims)
	}
	states := make([]int, nSteps)
	obs := mat.NewDense(nSteps, dims, nil)
	s := initState
	for t := 0; t < nSteps; t++ {
		if t > 0 {
			s = M.next(s)
		}
		states[t] = s
		obs.SetRow(t, M.centers.RawRowView(s))
	}
	if initObs != nil {
		obs.SetRow(0, initObs)
	}
	return obs, states, nil
}

func (M *MarkovStateModel) next(s int) int {
	u := M.rng.Float64()
	row := M.trans.RawRowView(s)
	var acc float64
	for j, p := range row {
		acc += p
		if u < acc {
			return j
		}
	}
	//rounding can leave acc slightly under 1
	for j := len(row) - 1; j >= 0; j-- {
		if row[j] > 0 {
			return j
		}
	}
	return s
}

// TransitionMatrix returns a copy of the estimated transition matrix, or nil if the model is not fitted.
func (M *MarkovStateModel) TransitionMatrix() *mat.Dense {
	if M.trans == nil {
		return nil
	}
	return mat.DenseCopyOf(M.trans)
}

// Counts returns a copy of the transition counts, or nil if the model is not fitted.
func (M *MarkovStateModel) Counts() *mat.Dense {
	if M.counts == nil {
		return nil
	}
	return mat.DenseCopyOf(M.counts)
}

// Centers returns a copy of the mean coordinates of each state, one per row, and a
// slice with true for the states that had no frames (their center is all zeros).
func (M *MarkovStateModel) Centers() (*mat.Dense, []bool) {
	if M.centers == nil {
		return nil, nil
	}
	e := make([]bool, len(M.empty))
	copy(e, M.empty)
	return mat.DenseCopyOf(M.centers), e
}
