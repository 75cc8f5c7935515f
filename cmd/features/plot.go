package main

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/motion.report/internal/features"
)

// plotColumns picks the columns worth drawing: the magnitudes when present,
// otherwise every column.
func plotColumns(t *features.Table) []string {
	suffix := "." + features.AccMagnitude.String()
	var mags []string
	for _, name := range t.Columns() {
		if strings.HasSuffix(name, suffix) {
			mags = append(mags, name)
		}
	}
	if len(mags) > 0 {
		return mags
	}
	return t.Columns()
}

func plotTable(t *features.Table, title, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s features (%d rows)", title, t.Len())
	p.X.Label.Text = "Row"
	p.Y.Label.Text = "Value"

	for i, name := range plotColumns(t) {
		col, _ := t.Column(name)
		pts := make(plotter.XYs, len(col))
		for r, v := range col {
			pts[r] = plotter.XY{X: float64(t.Label(r)), Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
