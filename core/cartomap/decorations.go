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

package cartomap

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/leadgeom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type GridOptions struct {
	LatStep   float64
	LonStep   float64
	Color     color.Color
	LineWidth float64
	Alpha     float64
	Labels    bool
	FontSize  float64
	ZOrder    int
}

func DefaultGridOptions() GridOptions {
	return GridOptions{LatStep: 5, LonStep: 10, Color: color.Gray{Y: 100}, LineWidth: 0.5, Alpha: 0.6, Labels: true, FontSize: 7, ZOrder: 4}
}

// steps - multiples of step from lo to hi inclusive
func steps(lo float64, hi float64, step float64) []float64 {
	result := []float64{}
	for v := math.Ceil(lo/step) * step; v <= hi+1e-9; v += step {
		result = append(result, v)
	}
	return result
}

// AddGrid - meridians and parallels across the extent, optionally labelled in degrees
func (m *Map) AddGrid(opts GridOptions) error {
	if opts.LatStep <= 0 || opts.LonStep <= 0 {
		return errorwithcode.MakeBadInputError(fmt.Errorf("grid steps must be positive, got lat %v, lon %v", opts.LatStep, opts.LonStep))
	}

	e := m.opts.Extent
	paths := []geom.Geom{}

	// Meridians stop short of the pole so they don't pile up into a blob
	meridianTop := math.Min(e.LatMax, 89)
	meridians := steps(e.LonMin, e.LonMax, opts.LonStep)
	if e.LonMax-e.LonMin >= 360 && len(meridians) > 1 {
		// Full circle, -180 and 180 are the same line
		meridians = meridians[:len(meridians)-1]
	}
	for _, lon := range meridians {
		line := geom.LineString{}
		for _, lat := range samples(e.LatMin, meridianTop, 0.5) {
			line = append(line, geom.Point{X: lon, Y: lat})
		}
		paths = append(paths, line)
	}

	parallels := steps(e.LatMin, e.LatMax, opts.LatStep)
	for _, lat := range parallels {
		if lat >= 90 || lat <= -90 {
			continue
		}
		line := geom.LineString{}
		for _, lon := range samples(e.LonMin, e.LonMax, 0.5) {
			line = append(line, geom.Point{X: lon, Y: lat})
		}
		paths = append(paths, line)
	}

	colour := withAlpha(opts.Color, opts.Alpha)
	lines, err := m.linePlotters(paths, colour, opts.LineWidth)
	if err != nil {
		return errors.Wrap(err, "failed to draw grid")
	}
	for _, l := range lines {
		l.(*plotter.Line).Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	}

	if opts.Labels {
		labels, err := m.gridLabels(meridians, parallels, opts)
		if err != nil {
			return err
		}
		lines = append(lines, labels)
	}

	m.addLayer(opts.ZOrder, lines...)
	return nil
}

func degreeLabel(v float64, pos string, neg string) string {
	switch {
	case v > 0:
		return fmt.Sprintf("%v°%v", v, pos)
	case v < 0:
		return fmt.Sprintf("%v°%v", -v, neg)
	}
	return "0°"
}

// Meridian labels along the lowest latitude, parallel labels along the middle meridian
func (m *Map) gridLabels(meridians []float64, parallels []float64, opts GridOptions) (plot.Plotter, error) {
	e := m.opts.Extent
	xyl := plotter.XYLabels{}

	add := func(lon, lat float64, text string) {
		x, y, err := m.toMap(lon, lat)
		if err != nil {
			return
		}
		xyl.XYs = append(xyl.XYs, plotter.XY{X: x, Y: y})
		xyl.Labels = append(xyl.Labels, text)
	}

	for _, lon := range meridians {
		wrapped := leadgeom.NormaliseLon(lon + 180) - 180
		add(lon, e.LatMin, degreeLabel(wrapped, "E", "W"))
	}
	midLon := (e.LonMin + e.LonMax) / 2
	for _, lat := range parallels {
		if lat >= 90 || lat <= -90 {
			continue
		}
		add(midLon, lat, degreeLabel(lat, "N", "S"))
	}

	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create grid labels")
	}
	for c := range labels.TextStyle {
		labels.TextStyle[c].Color = opts.Color
		labels.TextStyle[c].Font.Size = vg.Points(opts.FontSize)
		labels.TextStyle[c].XAlign = draw.XCenter
	}
	return labels, nil
}

type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

type DateOptions struct {
	Format   string
	Corner   Corner
	FontSize float64
	Color    color.Color
	ZOrder   int
}

func DefaultDateOptions() DateOptions {
	return DateOptions{Format: "2006-01-02 15:04", Corner: TopLeft, FontSize: 12, Color: color.Black, ZOrder: 5}
}

// AddDate - date label in a corner of the map, UTC
func (m *Map) AddDate(date time.Time, opts DateOptions) error {
	b := m.bounds
	dx := (b.Max.X - b.Min.X) * 0.02
	dy := (b.Max.Y - b.Min.Y) * 0.04

	var pt plotter.XY
	xAlign := draw.XLeft
	switch opts.Corner {
	case TopLeft:
		pt = plotter.XY{X: b.Min.X + dx, Y: b.Max.Y - dy}
	case TopRight:
		pt = plotter.XY{X: b.Max.X - dx, Y: b.Max.Y - dy}
		xAlign = draw.XRight
	case BottomLeft:
		pt = plotter.XY{X: b.Min.X + dx, Y: b.Min.Y + dy}
	case BottomRight:
		pt = plotter.XY{X: b.Max.X - dx, Y: b.Min.Y + dy}
		xAlign = draw.XRight
	default:
		return errorwithcode.MakeBadInputError(fmt.Errorf("invalid corner: %v", opts.Corner))
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: plotter.XYs{pt}, Labels: []string{date.UTC().Format(opts.Format)}})
	if err != nil {
		return errors.Wrap(err, "failed to create date label")
	}
	labels.TextStyle[0].Font.Size = vg.Points(opts.FontSize)
	labels.TextStyle[0].Color = opts.Color
	labels.TextStyle[0].XAlign = xAlign
	labels.TextStyle[0].YAlign = draw.YCenter

	m.addLayer(opts.ZOrder, labels)
	return nil
}

type TrackOptions struct {
	Color     color.Color
	LineWidth float64
	Alpha     float64
	// Joins the last point back to the first, for swath footprints
	Closed bool
	// Draws a dot at each point when > 0
	MarkerRadius float64
	ZOrder       int
}

func DefaultTrackOptions() TrackOptions {
	return TrackOptions{Color: color.RGBA{R: 220, G: 30, B: 30, A: 255}, LineWidth: 1.5, Alpha: 1, ZOrder: 6}
}

// AddTrack - line through lon/lat points, eg a resampled lead
func (m *Map) AddTrack(points []leadgeom.LatLon, opts TrackOptions) error {
	if len(points) <= 0 {
		return errorwithcode.MakeBadInputError(fmt.Errorf("no track points"))
	}

	path := make([]geom.Point, 0, len(points)+1)
	for _, pt := range points {
		path = append(path, geom.Point{X: pt.Lon, Y: pt.Lat})
	}
	if opts.Closed && len(path) > 2 {
		path = append(path, path[0])
	}

	xys := m.projectPath(path)
	if len(xys) <= 0 {
		return fmt.Errorf("none of the %v track points could be projected", len(points))
	}

	colour := withAlpha(opts.Color, opts.Alpha)
	plotters := []plot.Plotter{}

	if len(xys) > 1 {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrap(err, "failed to create track line")
		}
		line.Color = colour
		line.Width = vg.Points(opts.LineWidth)
		plotters = append(plotters, line)
	}

	if opts.MarkerRadius > 0 || len(xys) == 1 {
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(err, "failed to create track markers")
		}
		scatter.GlyphStyle.Color = colour
		scatter.GlyphStyle.Radius = vg.Points(math.Max(opts.MarkerRadius, 1))
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		plotters = append(plotters, scatter)
	}

	m.addLayer(opts.ZOrder, plotters...)
	return nil
}
