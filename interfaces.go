/*
 * interfaces.go, part of msmgo.
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

import "gonum.org/v1/gonum/mat"

// Model is the interface for any statistical model of trajectory data that can be
// fitted, scored and sampled. Gaussian HMMs and switching linear dynamical systems
// are expected to be provided by other libraries through this interface. MarkovStateModel
// implements it.
type Model interface {

	//Fit estimates the model parameters from the given trajectories, each
	//one a matrix with one frame per row.
	Fit(data []*mat.Dense) error

	//Score returns the log-likelihood of data under the fitted model.
	Score(data []*mat.Dense) (float64, error)

	//Sample produces nSteps observations (one per row) and the latent state
	//for each of them, starting from initState. If initObs is not nil, it is
	//used as the first observation.
	Sample(nSteps int, initState int, initObs []float64) (*mat.Dense, []int, error)
}

// Assigner maps each frame (row) of X to a discrete state.
type Assigner interface {
	Predict(X *mat.Dense) ([]int, error)
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the decoration slice resulting from the call. An empty string just returns the current value.
}
