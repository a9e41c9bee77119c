/*
 * agglomerative.go, part of msmgo.
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

//Package cluster implements landmark-based agglomerative hierarchical clustering.
//
//Only a subset of the data, the landmarks, is clustered hierarchically, which
//avoids computing all the pairwise distances in the data set. The remaining points
//are then assigned to clusters from their distances to the landmarks of each cluster.
//With NLandmarks=0 every point is a landmark, which is plain agglomerative clustering.
package cluster

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	msm "github.com/rmera/msmgo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Strategy is the method used to select landmarks.
type Strategy int

const (
	Stride Strategy = iota //every n-th point
	Random                 //uniformly at random, with replacement
)

// Metric is the distance between two points.
type Metric int

const (
	Euclidean Metric = iota
	Cityblock
)

func (M Metric) distance(a, b []float64) float64 {
	if M == Cityblock {
		return floats.Distance(a, b, 1)
	}
	return floats.Distance(a, b, 2)
}

// Options for the clustering. Only NClusters is required.
type Options struct {
	NClusters int
	//Number of landmarks to cluster. 0 means all the points.
	NLandmarks int
	//If larger than 0 and smaller than NClusters, it is used as NLandmarks.
	MaxLandmarks int
	Linkage      Linkage
	Metric       Metric
	Strategy     Strategy
	//Seed for the Random strategy
	Seed int64
}

// Model is a fitted clustering. It implements msm.Assigner.
type Model struct {
	opts Options
	//the landmark points, one per row
	Landmarks *mat.Dense
	//cluster of each landmark
	LandmarkLabels []int
	//labels of the data used in Fit. Only set when every point was a landmark.
	Labels []int
	//number of landmarks in each cluster
	Cardinality []int
	//sum of the squared distances between landmarks of the same cluster,
	//each pair counted once.
	withinSq []float64
}

// Fit clusters the rows of X.
func Fit(X *mat.Dense, opts Options) (*Model, error) {
	if X == nil {
		return nil, fmt.Errorf("msmgo/cluster.Fit: nil data")
	}
	n, dims := X.Dims()
	if opts.NClusters < 1 {
		return nil, fmt.Errorf("msmgo/cluster.Fit: NClusters must be at least 1, got %d", opts.NClusters)
	}
	if opts.MaxLandmarks > 0 && opts.NClusters > opts.MaxLandmarks {
		opts.NLandmarks = opts.MaxLandmarks
	}
	if opts.NLandmarks < 0 || opts.NLandmarks > n {
		return nil, fmt.Errorf("msmgo/cluster.Fit: can't select %d landmarks from %d points", opts.NLandmarks, n)
	}
	var landmarks []int
	if opts.NLandmarks == 0 {
		landmarks = make([]int, n)
		for i := range landmarks {
			landmarks[i] = i
		}
	} else {
		landmarks = selectLandmarks(n, opts.NLandmarks, opts.Strategy, opts.Seed)
	}
	nl := len(landmarks)
	if opts.NClusters > nl {
		return nil, fmt.Errorf("msmgo/cluster.Fit: %d clusters requested but only %d landmarks", opts.NClusters, nl)
	}
	M := &Model{opts: opts, Landmarks: mat.NewDense(nl, dims, nil)}
	for i, l := range landmarks {
		M.Landmarks.SetRow(i, X.RawRowView(l))
	}
	dist := make([]float64, nl*(nl-1)/2)
	for i := 0; i < nl; i++ {
		for j := i + 1; j < nl; j++ {
			dist[condensedIndex(nl, i, j)] = opts.Metric.distance(M.Landmarks.RawRowView(i), M.Landmarks.RawRowView(j))
		}
	}
	M.LandmarkLabels = agglomerate(dist, nl, opts.NClusters, opts.Linkage)
	M.Cardinality = make([]int, opts.NClusters)
	M.withinSq = make([]float64, opts.NClusters)
	for _, l := range M.LandmarkLabels {
		M.Cardinality[l]++
	}
	for i := 0; i < nl; i++ {
		for j := i + 1; j < nl; j++ {
			if M.LandmarkLabels[i] == M.LandmarkLabels[j] {
				d := dist[condensedIndex(nl, i, j)]
				M.withinSq[M.LandmarkLabels[i]] += d * d
			}
		}
	}
	if opts.NLandmarks == 0 {
		M.Labels = append([]int(nil), M.LandmarkLabels...)
	}
	return M, nil
}

func selectLandmarks(n, nl int, s Strategy, seed int64) []int {
	ret := make([]int, 0, nl)
	if s == Random {
		r := rand.New(rand.NewSource(seed))
		for i := 0; i < nl; i++ {
			ret = append(ret, r.Intn(n))
		}
		return ret
	}
	stride := n / nl
	for i := 0; i < n && len(ret) < nl; i += stride {
		ret = append(ret, i)
	}
	return ret
}

// NClusters returns the number of clusters of the model.
func (M *Model) NClusters() int {
	return M.opts.NClusters
}

//pool combines the distances d from one point to all the landmarks of cluster c.
//For Ward, it is the increase in the within-cluster sum of squares.
func (M *Model) pool(d []float64, c int) float64 {
	switch M.opts.Linkage {
	case Complete:
		return floats.Max(d)
	case Single:
		return floats.Min(d)
	case Ward:
		card := float64(M.Cardinality[c])
		var sq float64
		for _, v := range d {
			sq += v * v
		}
		if M.Cardinality[c] == 1 {
			return sq
		}
		return (card*sq - M.withinSq[c]) / (card * (card + 1) / 2)
	default:
		return floats.Sum(d) / float64(len(d))
	}
}

// Predict assigns each row of X to the cluster that minimizes the linkage criterion
// between the point and the landmarks of the cluster. Ties go to the cluster with
// the lowest index.
func (M *Model) Predict(X *mat.Dense) ([]int, error) {
	if X == nil {
		return nil, fmt.Errorf("msmgo/cluster.Model.Predict: nil data")
	}
	n, dims := X.Dims()
	if _, ld := M.Landmarks.Dims(); ld != dims {
		return nil, fmt.Errorf("msmgo/cluster.Model.Predict: data has %d dimensions, landmarks have %d", dims, ld)
	}
	members := make([][]int, M.opts.NClusters)
	for i, l := range M.LandmarkLabels {
		members[l] = append(members[l], i)
	}
	for c, m := range members {
		if len(m) == 0 {
			log.Printf("msmgo/cluster: no landmarks were assigned to cluster %d", c)
		}
	}
	labels := make([]int, n)
	buf := make([]float64, 0, len(M.LandmarkLabels))
	for i := 0; i < n; i++ {
		p := X.RawRowView(i)
		best := math.Inf(1)
		for c, m := range members {
			if len(m) == 0 {
				continue
			}
			buf = buf[:0]
			for _, l := range m {
				buf = append(buf, M.opts.Metric.distance(p, M.Landmarks.RawRowView(l)))
			}
			d := M.pool(buf, c)
			if d < 0 {
				log.Printf("msmgo/cluster: negative pooled distance %g for cluster %d", d, c)
			}
			if d < best {
				best = d
				labels[i] = c
			}
		}
	}
	return labels, nil
}

// FitCollection clusters all the frames of C together, and returns the model and the
// labels of the frames of each trajectory.
func FitCollection(C msm.Collection, opts Options) (*Model, map[msm.TrajID][]int, error) {
	X, err := C.Concatenate()
	if err != nil {
		return nil, nil, fmt.Errorf("msmgo/cluster.FitCollection: %w", err)
	}
	M, err := Fit(X, opts)
	if err != nil {
		return nil, nil, err
	}
	labels := make(map[msm.TrajID][]int, len(C))
	for _, id := range C.IDs() {
		l, err := M.Predict(C[id])
		if err != nil {
			return nil, nil, err
		}
		labels[id] = l
	}
	return M, labels, nil
}
