// Copyright 2025 seminarFairML Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/fairness"
)

// RenderPlot renders one fairness report as a PNG bar chart of group ratios,
// with horizontal rules at parity and at the four-fifths threshold.
func RenderPlot(report *fairness.Report) ([]byte, error) {
	p, err := plot.New()
	if err != nil {
		return nil, errors.Trace(err)
	}
	p.Title.Text = fmt.Sprintf("%s (base %s)", report.Metric, report.Privileged)
	p.Y.Label.Text = "ratio"
	p.Y.Min = 0
	// one bar per group
	values := make(plotter.Values, len(report.Groups))
	names := make([]string, len(report.Groups))
	for i, group := range report.Groups {
		values[i] = float64(group.Ratio)
		names[i] = group.Group
	}
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, errors.Trace(err)
	}
	p.Add(bars)
	p.NominalX(names...)
	// rules at parity and at the four-fifths threshold
	width := float64(len(report.Groups))
	parity, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: 1}, {X: width - 0.5, Y: 1}})
	if err != nil {
		return nil, errors.Trace(err)
	}
	parity.Color = color.Gray{Y: 128}
	fourFifths, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: float64(fairness.FourFifths)},
		{X: width - 0.5, Y: float64(fairness.FourFifths)},
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	fourFifths.Color = color.RGBA{R: 196, A: 255}
	fourFifths.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(parity, fourFifths)
	p.Legend.Add("parity", parity)
	p.Legend.Add("four-fifths", fourFifths)
	p.Legend.Top = true
	// render to a PNG buffer
	writerTo, err := p.WriterTo(4*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return nil, errors.Trace(err)
	}
	var buffer bytes.Buffer
	if _, err := writerTo.WriteTo(&buffer); err != nil {
		return nil, errors.Trace(err)
	}
	return buffer.Bytes(), nil
}

// SavePlot renders the report plot and writes it to path.
func SavePlot(report *fairness.Report, path string) error {
	data, err := RenderPlot(report)
	if err != nil {
		return errors.Trace(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("saved plot", zap.String("path", path))
	return nil
}
