// Package visualize renders datasets and evaluation results, either as PNG
// files through gonum/plot or as terminal charts through asciigraph.
package visualize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/manabi-ml/manabi/pkg/errors"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// ScatterPlot draws the first two columns of X colored by class label and
// saves the figure to path. The output format follows the file extension
// (.png, .svg, .pdf).
func ScatterPlot(X, y mat.Matrix, title, path string) error {
	rows, cols := X.Dims()
	if cols < 2 {
		return errors.NewValueError("visualize.ScatterPlot", "X needs at least 2 feature columns")
	}
	ry, _ := y.Dims()
	if ry != rows {
		return errors.NewDimensionError("visualize.ScatterPlot", rows, ry, 0)
	}

	// Group points by label so each class gets one glyph style and one
	// legend entry.
	groups := make(map[float64]plotter.XYs)
	order := make([]float64, 0)
	for i := 0; i < rows; i++ {
		label := y.At(i, 0)
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], plotter.XY{X: X.At(i, 0), Y: X.At(i, 1)})
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "feature 0"
	p.Y.Label.Text = "feature 1"
	p.Add(plotter.NewGrid())

	for i, label := range order {
		s, err := plotter.NewScatter(groups[label])
		if err != nil {
			return errors.Wrap(err, "building scatter series")
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("class %g", label), s)
	}

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}

// ValidationCurve plots a mean score per hyperparameter value with a
// shaded-free +/- one standard deviation envelope drawn as dashed lines.
func ValidationCurve(paramValues, meanScores, stdScores []float64, xLabel, title, path string) error {
	if len(paramValues) == 0 {
		return errors.NewModelError("visualize.ValidationCurve", "empty data", errors.ErrEmptyData)
	}
	if len(meanScores) != len(paramValues) {
		return errors.NewDimensionError("visualize.ValidationCurve", len(paramValues), len(meanScores), 0)
	}
	if stdScores != nil && len(stdScores) != len(paramValues) {
		return errors.NewDimensionError("visualize.ValidationCurve", len(paramValues), len(stdScores), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "score"
	p.Add(plotter.NewGrid())

	mean := make(plotter.XYs, len(paramValues))
	for i := range paramValues {
		mean[i] = plotter.XY{X: paramValues[i], Y: meanScores[i]}
	}

	line, points, err := plotter.NewLinePoints(mean)
	if err != nil {
		return errors.Wrap(err, "building score curve")
	}
	line.Color = plotutil.Color(0)
	points.GlyphStyle.Color = plotutil.Color(0)
	p.Add(line, points)
	p.Legend.Add("mean score", line)

	if stdScores != nil {
		upper := make(plotter.XYs, len(paramValues))
		lower := make(plotter.XYs, len(paramValues))
		for i := range paramValues {
			upper[i] = plotter.XY{X: paramValues[i], Y: meanScores[i] + stdScores[i]}
			lower[i] = plotter.XY{X: paramValues[i], Y: meanScores[i] - stdScores[i]}
		}
		for _, band := range []plotter.XYs{upper, lower} {
			l, err := plotter.NewLine(band)
			if err != nil {
				return errors.Wrap(err, "building deviation band")
			}
			l.Color = plotutil.Color(1)
			l.Dashes = plotutil.Dashes(1)
			p.Add(l)
		}
	}

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}

// Histogram draws the distribution of values with the given bin count.
func Histogram(values []float64, bins int, title, path string) error {
	if len(values) == 0 {
		return errors.NewModelError("visualize.Histogram", "empty data", errors.ErrEmptyData)
	}
	if bins < 1 {
		return errors.NewValidationError("bins", "must be at least 1", bins)
	}

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, "building histogram")
	}
	h.FillColor = plotutil.Color(0)

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "count"
	p.Add(h)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
