package eda

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

const cellSize = 4 * vg.Centimeter

// ScatterMatrixPlot renders a pairwise scatter-plot matrix of the selected
// feature columns, coloring each point by its class label, and saves it as
// a PNG at path. The diagonal cells hold per-column histograms.
func ScatterMatrixPlot(X mat.Matrix, y mat.Matrix, featureNames []string, columns []string, path string) error {
	_, c := X.Dims()
	if len(featureNames) != c {
		return errors.NewDimensionError("ScatterMatrixPlot", c, len(featureNames), 1)
	}

	indices := make([]int, 0, len(columns))
	for _, name := range columns {
		idx := -1
		for j, fn := range featureNames {
			if fn == name {
				idx = j
				break
			}
		}
		if idx < 0 {
			return errors.NewValueError("ScatterMatrixPlot", fmt.Sprintf("unknown column %q", name))
		}
		indices = append(indices, idx)
	}

	n := len(indices)
	plots := make([][]*plot.Plot, n)
	for i := range plots {
		plots[i] = make([]*plot.Plot, n)
		for j := range plots[i] {
			p := plot.New()
			p.X.Label.Text = columns[j]
			p.Y.Label.Text = columns[i]
			if i == j {
				h, err := histogramFor(X, indices[i])
				if err != nil {
					return err
				}
				p.Add(h)
			} else {
				if err := addClassScatters(p, X, y, indices[j], indices[i]); err != nil {
					return err
				}
			}
			plots[i][j] = p
		}
	}

	img := vgimg.New(vg.Length(n)*cellSize, vg.Length(n)*cellSize)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: n, Cols: n, PadX: vg.Millimeter, PadY: vg.Millimeter}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	return writePNG(img, path)
}

// HeatmapPlot renders the feature-correlation matrix as a heatmap with a
// diverging blue-red palette over [-1, 1] and saves it as a PNG at path.
func HeatmapPlot(corr *mat.SymDense, path string) error {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	hm := plotter.NewHeatMap(corrGrid{corr}, cm.Palette(255))
	hm.Min = -1
	hm.Max = 1

	p := plot.New()
	p.Title.Text = "Feature correlation"
	p.Add(hm)

	img := vgimg.New(6*cellSize, 6*cellSize)
	dc := draw.New(img)
	p.Draw(dc)

	return writePNG(img, path)
}

func addClassScatters(p *plot.Plot, X mat.Matrix, y mat.Matrix, xCol, yCol int) error {
	r, _ := X.Dims()
	byClass := map[int]plotter.XYs{}
	order := []int{}
	for i := 0; i < r; i++ {
		label := int(y.At(i, 0))
		if _, ok := byClass[label]; !ok {
			order = append(order, label)
		}
		byClass[label] = append(byClass[label], plotter.XY{X: X.At(i, xCol), Y: X.At(i, yCol)})
	}

	for k, label := range order {
		s, err := plotter.NewScatter(byClass[label])
		if err != nil {
			return errors.Wrap(err, "building scatter series")
		}
		s.GlyphStyle.Color = plotutil.Color(k)
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
	}
	return nil
}

func histogramFor(X mat.Matrix, col int) (*plotter.Histogram, error) {
	r, _ := X.Dims()
	values := make(plotter.Values, r)
	for i := 0; i < r; i++ {
		values[i] = X.At(i, col)
	}
	h, err := plotter.NewHist(values, 16)
	if err != nil {
		return nil, errors.Wrap(err, "building histogram")
	}
	return h, nil
}

func writePNG(img *vgimg.Canvas, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating plot directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating plot file")
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrap(err, "encoding plot")
	}
	return f.Close()
}

// corrGrid adapts a symmetric correlation matrix to the heatmap grid
// interface. Rows grow upward, so Z flips the row index to keep the
// matrix orientation with the first feature at the top.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := g.m.SymmetricDim()
	return g.m.At(n-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }

func (g corrGrid) Y(r int) float64 { return float64(r) }
