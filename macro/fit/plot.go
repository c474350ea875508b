package fit

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot saves the data points and the fitted curve to path. The image format is
// taken from the extension (png, svg, pdf, ...).
func (r *Result) Plot(path string) error {
	p := plot.New()
	p.Title.Text = r.equation.Formula
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	pts := make(plotter.XYs, len(r.x))
	for i := range r.x {
		pts[i].X = r.x[i]
		pts[i].Y = r.y[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("plot points: %w", err)
	}
	curve := plotter.NewFunction(r.F)
	curve.Samples = 200
	p.Add(scatter, curve)

	if err := p.Save(4*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
