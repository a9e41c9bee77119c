/*
 * sampled.go, part of msmgo.
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

//Package msmplot draws sampled paths over the density of a projected trajectory
//collection, and other diagnostic plots, using gonum/plot.
package msmplot

import (
	"fmt"

	msm "github.com/rmera/msmgo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//denseXY presents the first 2 columns of a matrix as a plotter.XYer
type denseXY struct {
	m *mat.Dense
}

func (d denseXY) Len() int {
	r, _ := d.m.Dims()
	return r
}

func (d denseXY) XY(i int) (float64, float64) {
	return d.m.At(i, 0), d.m.At(i, 1)
}

// Render draws on p the density of all the frames in C, as a hexagonal histogram of the first
// two dimensions, and on top of it, path as a line with markers. It sets the axis labels and
// adds the path to the legend. Only p is modified; saving it is left to the caller (see Save).
// An empty path draws only the density. All the failures are returned as *msm.RenderError.
func Render(p *plot.Plot, C msm.Collection, path *msm.SampledPath, cfg Config) error {
	if p == nil {
		return msm.NewRenderError(fmt.Errorf("nil plot"), "Render")
	}
	if path == nil {
		return msm.NewRenderError(fmt.Errorf("nil sampled path"), "Render")
	}
	if err := cfg.Validate(); err != nil {
		return msm.NewRenderError(err, "Render")
	}
	field, err := C.Concatenate()
	if err != nil {
		return msm.NewRenderError(err, "Render")
	}
	if _, c := field.Dims(); c < 2 {
		return msm.NewRenderError(fmt.Errorf("at least 2 dimensions needed, collection has %d", c), "Render")
	}
	cm, err := cfg.colorMap()
	if err != nil {
		return msm.NewRenderError(err, "Render")
	}
	hb, err := NewHexBin(denseXY{field}, cfg.GridSize, cm)
	if err != nil {
		return msm.NewRenderError(err, "Render")
	}
	hb.MinCount = cfg.MinCount
	hb.Log = cfg.BinScale == "log"
	sampled := path.Len() > 0
	if sampled && path.Dims() < 2 {
		return msm.NewRenderError(fmt.Errorf("at least 2 dimensions needed, path has %d", path.Dims()), "Render")
	}
	var line *plotter.Line
	var pts *plotter.Scatter
	if sampled {
		line, pts, err = plotter.NewLinePoints(path)
		if err != nil {
			return msm.NewRenderError(err, "Render")
		}
		col := plotutil.Color(0)
		line.LineStyle.Width = vg.Points(cfg.LineWidth)
		line.LineStyle.Color = col
		pts.GlyphStyle.Shape, _ = glyph(cfg.Marker.Shape) //already validated
		pts.GlyphStyle.Radius = vg.Points(cfg.Marker.Radius)
		pts.GlyphStyle.Color = col
	}
	//nothing is added to p before all the checks above pass.
	p.Add(hb)
	if sampled {
		p.Add(line, pts)
		p.Legend.Add(cfg.PathLabel, line, pts)
		p.Legend.Top = true
	}
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = cfg.YLabel
	if cfg.Title != "" {
		p.Title.Text = cfg.Title
	}
	return nil
}

// NewSampledPlot returns a new plot with the sampled path drawn over the
// density of C, as in Render.
func NewSampledPlot(C msm.Collection, path *msm.SampledPath, cfg Config) (*plot.Plot, error) {
	p := plot.New()
	if err := Render(p, C, path, cfg); err != nil {
		return nil, msm.Decorate(err, "NewSampledPlot")
	}
	return p, nil
}
