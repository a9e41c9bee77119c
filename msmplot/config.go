/*
 * config.go, part of msmgo.
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
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg/draw"
)

// Marker sets the glyphs drawn at each frame of a sampled path.
type Marker struct {
	//one of circle, ring, square, box, triangle, pyramid, cross, plus
	Shape string `yaml:"shape"`
	//in points
	Radius float64 `yaml:"radius"`
}

// Config holds everything that controls the look of Render. The zero value is not
// valid, start from DefaultConfig.
type Config struct {
	//kindlmann, extended-kindlmann, blackbody, extended-blackbody or smooth-blue-red
	ColorMap string `yaml:"colormap"`
	//log or linear: how bin counts are mapped to colors
	BinScale string `yaml:"bin_scale"`
	//bins with fewer observations are not drawn
	MinCount int `yaml:"min_count"`
	//number of hexagons in the x direction
	GridSize int `yaml:"grid_size"`
	//opacity of the density layer, 0-1
	Alpha float64 `yaml:"alpha"`
	Marker    Marker  `yaml:"marker"`
	LineWidth float64 `yaml:"line_width"` //points
	XLabel    string  `yaml:"x_label"`
	YLabel    string  `yaml:"y_label"`
	PathLabel string  `yaml:"path_label"`
	Title     string  `yaml:"title"`
}

// DefaultConfig returns the configuration for the standard tIC plot.
func DefaultConfig() Config {
	return Config{
		ColorMap:  "kindlmann",
		BinScale:  "log",
		MinCount:  1,
		GridSize:  100,
		Alpha:     0.8,
		Marker:    Marker{Shape: "circle", Radius: 3},
		LineWidth: 1.5,
		XLabel:    "tIC 1",
		YLabel:    "tIC 2",
		PathLabel: "Sampled",
	}
}

// Validate returns an error if some value in the configuration can't be used.
func (C Config) Validate() error {
	if !(C.Alpha >= 0 && C.Alpha <= 1) {
		return fmt.Errorf("msmgo/msmplot.Config: alpha must be between 0 and 1, got %g", C.Alpha)
	}
	if _, err := C.colorMap(); err != nil {
		return err
	}
	if C.BinScale != "log" && C.BinScale != "linear" {
		return fmt.Errorf("msmgo/msmplot.Config: bin_scale must be log or linear, not %q", C.BinScale)
	}
	if C.MinCount < 1 {
		return fmt.Errorf("msmgo/msmplot.Config: min_count must be at least 1, got %d", C.MinCount)
	}
	if C.GridSize < 2 {
		return fmt.Errorf("msmgo/msmplot.Config: grid_size must be at least 2, got %d", C.GridSize)
	}
	if _, err := glyph(C.Marker.Shape); err != nil {
		return err
	}
	if C.Marker.Radius <= 0 || C.LineWidth <= 0 {
		return fmt.Errorf("msmgo/msmplot.Config: marker radius and line width must be positive")
	}
	return nil
}

//colorMap returns a new color map each time, as the maps are
//modified when used.
func (C Config) colorMap() (palette.ColorMap, error) {
	//SetAlpha panics outside [0,1]
	if !(C.Alpha >= 0 && C.Alpha <= 1) {
		return nil, fmt.Errorf("msmgo/msmplot.Config: alpha must be between 0 and 1, got %g", C.Alpha)
	}
	var cm palette.ColorMap
	switch strings.ToLower(C.ColorMap) {
	case "kindlmann":
		cm = moreland.Kindlmann()
	case "extended-kindlmann":
		cm = moreland.ExtendedKindlmann()
	case "blackbody":
		cm = moreland.BlackBody()
	case "extended-blackbody":
		cm = moreland.ExtendedBlackBody()
	case "smooth-blue-red":
		cm = moreland.SmoothBlueRed()
	default:
		return nil, fmt.Errorf("msmgo/msmplot.Config: unknown colormap %q", C.ColorMap)
	}
	cm.SetAlpha(C.Alpha)
	return cm, nil
}

func glyph(shape string) (draw.GlyphDrawer, error) {
	switch strings.ToLower(shape) {
	case "circle":
		return draw.CircleGlyph{}, nil
	case "ring":
		return draw.RingGlyph{}, nil
	case "square":
		return draw.SquareGlyph{}, nil
	case "box":
		return draw.BoxGlyph{}, nil
	case "triangle":
		return draw.TriangleGlyph{}, nil
	case "pyramid":
		return draw.PyramidGlyph{}, nil
	case "cross":
		return draw.CrossGlyph{}, nil
	case "plus":
		return draw.PlusGlyph{}, nil
	default:
		return draw.CircleGlyph{}, fmt.Errorf("msmgo/msmplot.Config: unknown marker shape %q", shape)
	}
}
