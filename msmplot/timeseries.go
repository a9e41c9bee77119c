/*
 * timeseries.go, part of msmgo.
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
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//column presents the column dim of a matrix as a time series.
type column struct {
	m   *mat.Dense
	dim int
}

func (c column) Len() int {
	r, _ := c.m.Dims()
	return r
}

func (c column) XY(i int) (float64, float64) {
	return float64(i), c.m.At(i, c.dim)
}

// SampleComparison returns a plot with the coordinate dim of the observed trajectory and of a
// trajectory sampled from a model (one frame per row in both) against the frame number. It is
// the usual visual check of a fitted model.
func SampleComparison(title string, observed, sampled *mat.Dense, dim int) (*plot.Plot, error) {
	if observed == nil || sampled == nil {
		return nil, fmt.Errorf("msmgo/msmplot.SampleComparison: nil data")
	}
	_, oc := observed.Dims()
	_, sc := sampled.Dims()
	if dim < 0 || dim >= oc || dim >= sc {
		return nil, fmt.Errorf("msmgo/msmplot.SampleComparison: dimension %d out of range (observations have %d, samples %d)", dim, oc, sc)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = fmt.Sprintf("Coordinate %d", dim+1)
	series := []struct {
		name string
		data *mat.Dense
	}{{"Observations", observed}, {"Sampled Observations", sampled}}
	for key, s := range series {
		l, err := plotter.NewLine(column{s.data, dim})
		if err != nil {
			return nil, err
		}
		r, g, b := colors(key, len(series))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(s.name, l)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	conversion := 255.0
	if s == 0.0 {
		return uint8(conversion * v), uint8(conversion * v), uint8(conversion * v)
	}
	h = h / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

//colors returns a color for the series key out of steps, spreading
//the hues and skipping the yellows, which are hard to see on white.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	return iHVS2RGB(h, 1.0, 1.0)
}
