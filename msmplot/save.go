/*
 * save.go, part of msmgo.
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
	"os"
	"path/filepath"
	"strings"

	msm "github.com/rmera/msmgo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Save writes p to the file name, in the format given by its extension (png, svg, pdf, eps,
// jpg, tif and tex are supported). The figure is written to a temporary file in the same
// directory and renamed at the end, so a failure never leaves a partial figure behind, nor
// removes a previous one. Errors are returned as *msm.RenderError.
func Save(p *plot.Plot, width, height vg.Length, name string) (err error) {
	if p == nil {
		return msm.NewRenderError(fmt.Errorf("nil plot"), "Save")
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if format == "" {
		return msm.NewRenderError(fmt.Errorf("no extension in %q to choose the format", name), "Save")
	}
	w, err := p.WriterTo(width, height, format)
	if err != nil {
		return msm.NewRenderError(err, "Save")
	}
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return msm.NewRenderError(err, "Save")
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()
	if _, err = w.WriteTo(f); err != nil {
		return msm.NewRenderError(err, "Save")
	}
	if err = f.Close(); err != nil {
		return msm.NewRenderError(err, "Save")
	}
	if err = os.Rename(tmp, name); err != nil {
		return msm.NewRenderError(err, "Save")
	}
	return nil
}
