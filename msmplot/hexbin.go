/*
 * hexbin.go, part of msmgo.
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

package msmplot

import (
	"cmp"
	"fmt"
	"log"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// HexCell is one bin of a HexBin: the center of the hexagon and the
// number of points in it.
type HexCell struct {
	X, Y  float64
	Count int
}

// HexBin is a plotter for a 2D histogram with hexagonal bins. The hexagons tile
// the range of the data with GridSize hexagons in the x direction, and the
// number of rows needed to keep them regular (in data units, for square axes).
type HexBin struct {
	XYs plotter.XYs

	GridSize int

	//Cells with fewer points than MinCount are not drawn.
	MinCount int

	//If true, the color of each cell depends on log10 of its count.
	Log bool

	ColorMap palette.ColorMap
}

// NewHexBin returns a HexBin for the points in xys. It fails if any
// of the values is NaN or infinite.
func NewHexBin(xys plotter.XYer, gridsize int, cm palette.ColorMap) (*HexBin, error) {
	data, err := plotter.CopyXYs(xys)
	if err != nil {
		return nil, err
	}
	if gridsize < 2 {
		return nil, fmt.Errorf("msmgo/msmplot.NewHexBin: grid size must be at least 2, got %d", gridsize)
	}
	if cm == nil {
		return nil, fmt.Errorf("msmgo/msmplot.NewHexBin: nil color map")
	}
	return &HexBin{XYs: data, GridSize: gridsize, MinCount: 1, Log: true, ColorMap: cm}, nil
}

//grid returns the origin and the size of the hexagons (sx is the distance
//between the centers of two neighbours in the same row, sy between two rows
//of the same lattice).
func (h *HexBin) grid() (xmin, ymin, sx, sy float64) {
	xmin, xmax, ymin, ymax := plotter.XYRange(h.XYs)
	xmin, xmax = nonsingular(xmin, xmax)
	ymin, ymax = nonsingular(ymin, ymax)
	nx := float64(h.GridSize)
	ny := math.Floor(nx / math.Sqrt(3))
	//so the points on the border fall inside
	pad := 1e-9 * (xmax - xmin)
	xmin -= pad
	xmax += pad
	pad = 1e-9 * (ymax - ymin)
	ymin -= pad
	ymax += pad
	return xmin, ymin, (xmax - xmin) / nx, (ymax - ymin) / ny
}

func nonsingular(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	d := 0.1 * math.Abs(lo)
	if d == 0 {
		d = 0.1
	}
	return lo - d, hi + d
}

type hexKey struct {
	lattice int
	i, j    int
}

// Cells returns the cells with at least MinCount points, sorted by their
// center, first by Y and then by X.
func (h *HexBin) Cells() []HexCell {
	if len(h.XYs) == 0 {
		return nil
	}
	xmin, ymin, sx, sy := h.grid()
	counts := make(map[hexKey]int)
	for _, p := range h.XYs {
		x := (p.X - xmin) / sx
		y := (p.Y - ymin) / sy
		i1, j1 := math.Round(x), math.Round(y)
		i2, j2 := math.Floor(x), math.Floor(y)
		d1 := (x-i1)*(x-i1) + 3*(y-j1)*(y-j1)
		d2 := (x-i2-0.5)*(x-i2-0.5) + 3*(y-j2-0.5)*(y-j2-0.5)
		if d1 < d2 {
			counts[hexKey{0, int(i1), int(j1)}]++
		} else {
			counts[hexKey{1, int(i2), int(j2)}]++
		}
	}
	mincnt := max(h.MinCount, 1)
	cells := make([]HexCell, 0, len(counts))
	for k, n := range counts {
		if n < mincnt {
			continue
		}
		off := 0.0
		if k.lattice == 1 {
			off = 0.5
		}
		cells = append(cells, HexCell{X: xmin + (float64(k.i)+off)*sx, Y: ymin + (float64(k.j)+off)*sy, Count: n})
	}
	slices.SortFunc(cells, func(a, b HexCell) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return cells
}

//vertices of a hexagon around the origin, in units of (sx, sy/3).
var hexagon = [6][2]float64{{0.5, -0.5}, {0.5, 0.5}, {0, 1}, {-0.5, 0.5}, {-0.5, -0.5}, {0, -1}}

func (h *HexBin) value(n int) float64 {
	if h.Log {
		return math.Log10(float64(n))
	}
	return float64(n)
}

// Plot implements the plot.Plotter interface.
func (h *HexBin) Plot(c draw.Canvas, plt *plot.Plot) {
	cells := h.Cells()
	if len(cells) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, cell := range cells {
		v := h.value(cell.Count)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	h.ColorMap.SetMax(hi)
	h.ColorMap.SetMin(lo)
	_, _, sx, sy := h.grid()
	trX, trY := plt.Transforms(&c)
	pts := make([]vg.Point, len(hexagon))
	for _, cell := range cells {
		col, err := h.ColorMap.At(math.Max(lo, math.Min(hi, h.value(cell.Count))))
		if err != nil {
			log.Printf("msmgo/msmplot.HexBin: can't get a color for count %d: %v", cell.Count, err)
			continue
		}
		for i, v := range hexagon {
			pts[i] = vg.Point{X: trX(cell.X + v[0]*sx), Y: trY(cell.Y + v[1]*sy/3)}
		}
		c.FillPolygon(col, c.ClipPolygonXY(pts))
	}
}

// DataRange implements the plot.DataRanger interface. It covers all the hexagons drawn.
func (h *HexBin) DataRange() (xmin, xmax, ymin, ymax float64) {
	cells := h.Cells()
	if len(cells) == 0 {
		return plotter.XYRange(h.XYs)
	}
	_, _, sx, sy := h.grid()
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, cell := range cells {
		xmin = math.Min(xmin, cell.X-sx/2)
		xmax = math.Max(xmax, cell.X+sx/2)
		ymin = math.Min(ymin, cell.Y-sy/3)
		ymax = math.Max(ymax, cell.Y+sy/3)
	}
	return xmin, xmax, ymin, ymax
}
