/*
 * doc.go, part of msmgo.
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

//Package msm provides the data model and the small analysis steps used to go from
//projected molecular dynamics trajectories to a sampled path through the reduced
//coordinate space: trajectory collections, (trajectory, frame) index pairs,
//sampled paths, transition counts, a discrete Markov state model and the
//selection of representative frames along a coordinate.
//
//Loading and saving are in the store sub-package, clustering in cluster, and
//plotting in msmplot.
package msm
