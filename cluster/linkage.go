/*
 * linkage.go, part of msmgo.
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

package cluster

import (
	"fmt"
	"math"
)

// Linkage is the criterion used to measure the distance between clusters.
type Linkage int

const (
	Average Linkage = iota
	Complete
	Single
	Ward
)

func (L Linkage) String() string {
	switch L {
	case Average:
		return "average"
	case Complete:
		return "complete"
	case Single:
		return "single"
	case Ward:
		return "ward"
	default:
		return fmt.Sprintf("Linkage(%d)", int(L))
	}
}

// ParseLinkage returns the linkage with the given name.
func ParseLinkage(name string) (Linkage, error) {
	for _, l := range []Linkage{Average, Complete, Single, Ward} {
		if l.String() == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("msmgo/cluster: linkage %q is not supported", name)
}

//update returns the distance between the cluster k and the union of i and j, from the
//distances before the merge (Lance-Williams). ni, nj, nk are the cluster sizes.
func (L Linkage) update(dki, dkj, dij float64, ni, nj, nk int) float64 {
	switch L {
	case Single:
		return math.Min(dki, dkj)
	case Complete:
		return math.Max(dki, dkj)
	case Ward:
		fi, fj, fk := float64(ni), float64(nj), float64(nk)
		s := ((fk+fi)*dki*dki + (fk+fj)*dkj*dkj - fk*dij*dij) / (fi + fj + fk)
		return math.Sqrt(math.Max(s, 0))
	default:
		return (float64(ni)*dki + float64(nj)*dkj) / float64(ni+nj)
	}
}

//agglomerate clusters the n points with condensed pairwise distances
//(see condensedIndex), merging until nclusters remain, and returns the
//label of each point. Labels are numbered by order of first appearance.
//Ties are broken in favor of the pair with the lowest indexes.
func agglomerate(dist []float64, n, nclusters int, L Linkage) []int {
	//full symmetric working copy, only entries between active clusters are meaningful
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := dist[condensedIndex(n, i, j)]
			d[i][j] = v
			d[j][i] = v
		}
	}
	size := make([]int, n)
	owner := make([]int, n) //cluster (representative index) of each point
	active := make([]bool, n)
	for i := range size {
		size[i] = 1
		owner[i] = i
		active[i] = true
	}
	for remaining := n; remaining > nclusters; remaining-- {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && d[i][j] < best {
					best = d[i][j]
					bi, bj = i, j
				}
			}
		}
		//j is merged into i
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			v := L.update(d[k][bi], d[k][bj], d[bi][bj], size[bi], size[bj], size[k])
			d[k][bi] = v
			d[bi][k] = v
		}
		size[bi] += size[bj]
		active[bj] = false
		for p := range owner {
			if owner[p] == bj {
				owner[p] = bi
			}
		}
	}
	labels := make([]int, n)
	names := make(map[int]int)
	for p, o := range owner {
		if _, ok := names[o]; !ok {
			names[o] = len(names)
		}
		labels[p] = names[o]
	}
	return labels
}

//condensedIndex returns the position of the distance between i and j (i<j)
//in a condensed distance vector for n points.
func condensedIndex(n, i, j int) int {
	return n*i - i*(i+1)/2 + j - i - 1
}
