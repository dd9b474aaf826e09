// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package leadgeom

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tidwall/geodesic"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ArcDistances - geodesic distance (km, WGS84) between each consecutive pair of points
func ArcDistances(points []LatLon) []float64 {
	result := []float64{}
	for c := 1; c < len(points); c++ {
		ds, _ := inverseKm(geodesic.WGS84, points[c-1], points[c])
		result = append(result, ds)
	}
	return result
}

// SpacingSummary - how evenly a resampled lead came out
type SpacingSummary struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

func SummariseSpacing(points []LatLon) SpacingSummary {
	dists := ArcDistances(points)
	if len(dists) <= 0 {
		return SpacingSummary{}
	}

	return SpacingSummary{
		Count: len(dists),
		Mean:  stat.Mean(dists, nil),
		Min:   floats.Min(dists),
		Max:   floats.Max(dists),
	}
}

func (s SpacingSummary) String() string {
	return fmt.Sprintf("%v segments, mean %.3f km, min %.3f km, max %.3f km", s.Count, s.Mean, s.Min, s.Max)
}

// PlotArcDistances - line plot of arc distance per site index, y axis showing mean +/- 2*errorKm
// so spacing outliers stand out. Format is picked from the file extension (png, svg, pdf...)
func PlotArcDistances(dists []float64, errorKm float64, outPath string) error {
	if len(dists) <= 0 {
		return errors.New("no arc distances to plot")
	}

	pts := make(plotter.XYs, len(dists))
	for c, d := range dists {
		pts[c].X = float64(c)
		pts[c].Y = d
	}

	p := plot.New()
	p.Title.Text = "Lead spacing"
	p.X.Label.Text = "Site Index"
	p.Y.Label.Text = "Arcdistance (km)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "failed to create arc distance line")
	}
	p.Add(line, plotter.NewGrid())

	mean := stat.Mean(dists, nil)
	p.Y.Min = mean - 2*errorKm
	p.Y.Max = mean + 2*errorKm

	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return errors.Wrapf(err, "failed to save arc distance plot: %v", outPath)
	}
	return nil
}
