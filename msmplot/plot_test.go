package msmplot

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	msm "github.com/rmera/msmgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

//spiral returns a deterministic trajectory with n frames and 3 dimensions.
func spiral(n int, phase float64) *mat.Dense {
	m := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		t := float64(i) / 10
		m.Set(i, 0, t*math.Cos(t+phase))
		m.Set(i, 1, t*math.Sin(t+phase))
		m.Set(i, 2, t)
	}
	return m
}

func testData(Te *testing.T) (msm.Collection, *msm.SampledPath) {
	Te.Helper()
	C := msm.Collection{msm.IntID(0): spiral(500, 0), msm.IntID(1): spiral(300, math.Pi)}
	inds, err := msm.SampleDimension(C, 0, 10)
	require.NoError(Te, err)
	path, err := msm.BuildSampledPath(C, inds)
	require.NoError(Te, err)
	return C, path
}

func TestHexBinCells(Te *testing.T) {
	C, _ := testData(Te)
	field, err := C.Concatenate()
	require.NoError(Te, err)
	hb, err := NewHexBin(denseXY{field}, 30, moreland.Kindlmann())
	require.NoError(Te, err)
	cells := hb.Cells()
	total := 0
	for _, c := range cells {
		assert.GreaterOrEqual(Te, c.Count, 1)
		total += c.Count
	}
	assert.Equal(Te, 800, total, "with MinCount 1 every point is in some drawn cell")
	assert.Equal(Te, cells, hb.Cells(), "binning must be deterministic")
	xmin, xmax, ymin, ymax := hb.DataRange()
	for _, p := range hb.XYs {
		assert.True(Te, p.X >= xmin && p.X <= xmax && p.Y >= ymin && p.Y <= ymax)
	}

	hb.MinCount = 3
	for _, c := range hb.Cells() {
		assert.GreaterOrEqual(Te, c.Count, 3)
	}
	assert.Less(Te, len(hb.Cells()), len(cells))
}

func TestHexBinSinglePoint(Te *testing.T) {
	xys := plotter.XYs{{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}}
	hb, err := NewHexBin(xys, 10, moreland.Kindlmann())
	require.NoError(Te, err)
	cells := hb.Cells()
	require.Len(Te, cells, 1)
	assert.Equal(Te, 3, cells[0].Count)
	assert.InDelta(Te, 2, cells[0].X, 0.2)
	assert.InDelta(Te, 2, cells[0].Y, 0.2)

	_, err = NewHexBin(plotter.XYs{{X: math.NaN(), Y: 1}}, 10, moreland.Kindlmann())
	assert.Error(Te, err)
	_, err = NewHexBin(xys, 1, moreland.Kindlmann())
	assert.Error(Te, err)
	_, err = NewHexBin(xys, 10, nil)
	assert.Error(Te, err)
}

func TestHexBinColorScale(Te *testing.T) {
	//one cell with 1 point, one with 1000
	xys := plotter.XYs{{X: 0, Y: 0}}
	for i := 0; i < 1000; i++ {
		xys = append(xys, plotter.XY{X: 10, Y: 10})
	}
	hb, err := NewHexBin(xys, 10, moreland.Kindlmann())
	require.NoError(Te, err)
	require.True(Te, hb.Log)
	assert.Equal(Te, 0.0, hb.value(1))
	assert.InDelta(Te, 3, hb.value(1000), 1e-12)
	cells := hb.Cells()
	require.Len(Te, cells, 2)

	p := plot.New()
	p.Add(hb)
	p.Draw(draw.New(vgimg.New(3*vg.Inch, 3*vg.Inch)))
	assert.InDelta(Te, 0, hb.ColorMap.Min(), 1e-12)
	assert.InDelta(Te, 3, hb.ColorMap.Max(), 1e-12)

	hb.Log = false
	assert.Equal(Te, 1000.0, hb.value(1000))
	p.Draw(draw.New(vgimg.New(3*vg.Inch, 3*vg.Inch)))
	assert.InDelta(Te, 1, hb.ColorMap.Min(), 1e-12)
	assert.InDelta(Te, 1000, hb.ColorMap.Max(), 1e-12)
}

func rasterImage(Te *testing.T, p *plot.Plot) *image.RGBA {
	Te.Helper()
	img := vgimg.New(4*vg.Inch, 3*vg.Inch)
	p.Draw(draw.New(img))
	rgba, ok := img.Image().(*image.RGBA)
	require.True(Te, ok)
	return rgba
}

func rasterize(Te *testing.T, p *plot.Plot) []byte {
	Te.Helper()
	return rasterImage(Te, p).Pix
}

//pixel returns the image coordinates of the data point (x, y) in p,
//drawn on a 4x3 inch image at the vgimg default resolution.
func pixel(p *plot.Plot, x, y float64) (int, int) {
	c := draw.New(vgimg.New(4*vg.Inch, 3*vg.Inch))
	dc := p.DataCanvas(c)
	trX, trY := p.Transforms(&dc)
	scale := float64(vgimg.DefaultDPI) / float64(vg.Inch)
	px := float64(trX(x)) * scale
	py := float64(3*vg.Inch-trY(y)) * scale
	return int(px), int(py)
}

func TestPathOverDensity(Te *testing.T) {
	C, _ := testData(Te)
	//frame 0 of trajectory 0 is the origin, in the densest part of the field.
	path, err := msm.BuildSampledPath(C, []msm.IndexPair{{Traj: "0", Frame: 0}})
	require.NoError(Te, err)
	empty, err := msm.BuildSampledPath(C, nil)
	require.NoError(Te, err)

	withPath, err := NewSampledPlot(C, path, DefaultConfig())
	require.NoError(Te, err)
	density, err := NewSampledPlot(C, empty, DefaultConfig())
	require.NoError(Te, err)

	x, y := pixel(withPath, 0, 0)
	want := color.RGBAModel.Convert(plotutil.Color(0)).(color.RGBA)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	under := rasterImage(Te, density).RGBAAt(x, y)
	assert.NotEqual(Te, white, under, "the origin must be inside a filled hexagon")
	assert.NotEqual(Te, want, under)
	assert.Equal(Te, want, rasterImage(Te, withPath).RGBAAt(x, y), "the path must be drawn over the density")
}

func TestRenderDeterministic(Te *testing.T) {
	C, path := testData(Te)
	p1 := plot.New()
	require.NoError(Te, Render(p1, C, path, DefaultConfig()))
	p2 := plot.New()
	require.NoError(Te, Render(p2, C, path, DefaultConfig()))
	assert.Equal(Te, "tIC 1", p1.X.Label.Text)
	assert.Equal(Te, "tIC 2", p1.Y.Label.Text)
	assert.True(Te, bytes.Equal(rasterize(Te, p1), rasterize(Te, p2)), "two renders of the same data must be identical")

	//the density alone, and a different path, give a different image.
	p3 := plot.New()
	empty, err := msm.BuildSampledPath(C, nil)
	require.NoError(Te, err)
	require.NoError(Te, Render(p3, C, empty, DefaultConfig()))
	assert.False(Te, bytes.Equal(rasterize(Te, p1), rasterize(Te, p3)))
}

func TestRenderConfig(Te *testing.T) {
	C, path := testData(Te)
	cfg := DefaultConfig()
	cfg.ColorMap = "extended-blackbody"
	cfg.BinScale = "linear"
	cfg.MinCount = 2
	cfg.Marker.Shape = "square"
	cfg.XLabel = "PC 1"
	cfg.Title = "Sampled along PC 1"
	p, err := NewSampledPlot(C, path, cfg)
	require.NoError(Te, err)
	assert.Equal(Te, "PC 1", p.X.Label.Text)
	assert.Equal(Te, "Sampled along PC 1", p.Title.Text)
	rasterize(Te, p)
}

func TestRenderErrors(Te *testing.T) {
	C, path := testData(Te)
	var re *msm.RenderError

	err := Render(nil, C, path, DefaultConfig())
	assert.True(Te, errors.As(err, &re))

	err = Render(plot.New(), C, nil, DefaultConfig())
	assert.True(Te, errors.As(err, &re))

	err = Render(plot.New(), msm.Collection{}, path, DefaultConfig())
	assert.True(Te, errors.As(err, &re))

	oneD := msm.Collection{"a": mat.NewDense(2, 1, []float64{1, 2})}
	err = Render(plot.New(), oneD, path, DefaultConfig())
	assert.True(Te, errors.As(err, &re))

	bad := []func(*Config){
		func(c *Config) { c.ColorMap = "jet" },
		func(c *Config) { c.BinScale = "sqrt" },
		func(c *Config) { c.MinCount = 0 },
		func(c *Config) { c.GridSize = 1 },
		func(c *Config) { c.Alpha = 2 },
		func(c *Config) { c.Alpha = -0.5 },
		func(c *Config) { c.Alpha = math.NaN() },
		func(c *Config) { c.Marker.Shape = "star" },
		func(c *Config) { c.LineWidth = 0 },
	}
	for i, f := range bad {
		cfg := DefaultConfig()
		f(&cfg)
		assert.Error(Te, cfg.Validate(), "case %d", i)
		p := plot.New()
		err = Render(p, C, path, cfg)
		assert.True(Te, errors.As(err, &re), "case %d", i)
		assert.Empty(Te, p.X.Label.Text, "a failed render must not touch the plot")
	}
	assert.NoError(Te, DefaultConfig().Validate())
}

func TestSave(Te *testing.T) {
	C, path := testData(Te)
	p, err := NewSampledPlot(C, path, DefaultConfig())
	require.NoError(Te, err)
	dir := Te.TempDir()
	for _, name := range []string{"tica-dimension-0-heatmap.png", "tica-dimension-0-heatmap.svg", "tica-dimension-0-heatmap.pdf"} {
		out := filepath.Join(dir, name)
		require.NoError(Te, Save(p, 7*vg.Inch, 5*vg.Inch, out))
		st, err := os.Stat(out)
		require.NoError(Te, err)
		assert.Greater(Te, st.Size(), int64(0))
	}
	var re *msm.RenderError
	assert.True(Te, errors.As(Save(p, 7*vg.Inch, 5*vg.Inch, filepath.Join(dir, "noext")), &re))
	assert.True(Te, errors.As(Save(p, 7*vg.Inch, 5*vg.Inch, filepath.Join(dir, "fig.bmp")), &re))
	assert.True(Te, errors.As(Save(nil, 7*vg.Inch, 5*vg.Inch, filepath.Join(dir, "fig.png")), &re))
	assert.True(Te, errors.As(Save(p, 7*vg.Inch, 5*vg.Inch, filepath.Join(dir, "missing", "fig.png")), &re))
	entries, err := os.ReadDir(dir)
	require.NoError(Te, err)
	assert.Len(Te, entries, 3, "only the saved figures should be in the directory")
}

func TestSampleComparison(Te *testing.T) {
	obs := spiral(100, 0)
	sim := spiral(80, 1)
	p, err := SampleComparison("MSM", obs, sim, 1)
	require.NoError(Te, err)
	assert.Equal(Te, "MSM", p.Title.Text)
	rasterize(Te, p)
	_, err = SampleComparison("MSM", obs, sim, 3)
	assert.Error(Te, err)
	_, err = SampleComparison("MSM", nil, sim, 0)
	assert.Error(Te, err)
}

func TestColors(Te *testing.T) {
	r, g, b := iHVS2RGB(0, 1, 1)
	assert.Equal(Te, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r, g, b = iHVS2RGB(240, 1, 1)
	assert.Equal(Te, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
	r0, g0, b0 := colors(0, 2)
	r1, g1, b1 := colors(1, 2)
	assert.NotEqual(Te, [3]uint8{r0, g0, b0}, [3]uint8{r1, g1, b1})
}
