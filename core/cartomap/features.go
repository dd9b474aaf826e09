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
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Natural Earth resolutions
var validScales = []string{"10m", "50m", "110m"}

const defaultScale = "50m"

var defaultFeatureColour = color.Gray{Y: 128}

func featurePath(dir string, scale string, kind string) (string, error) {
	if !utils.ItemInSlice(scale, validScales) {
		return "", errorwithcode.MakeBadInputError(fmt.Errorf("invalid Natural Earth scale %v, expected one of %v", scale, validScales))
	}
	return filepath.Join(dir, fmt.Sprintf("ne_%v_%v.shp", scale, kind)), nil
}

// ReadFeatures - all geometries in a shapefile, lon/lat as stored
func ReadFeatures(path string) ([]geom.Geom, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, errorwithcode.MakeFileAccessError(path, errors.Wrap(err, "failed to open shapefile"))
	}
	defer dec.Close()

	result := []geom.Geom{}
	for {
		g, _, more := dec.DecodeRowFields()
		if !more {
			break
		}
		if g != nil {
			result = append(result, g)
		}
	}

	if err := dec.Error(); err != nil {
		return nil, errorwithcode.MakeFileAccessError(path, errors.Wrap(err, "failed to read shapefile"))
	}
	return result, nil
}

// Splits a geometry into its rings/lines, nil if it's not something we draw
func geomPaths(g geom.Geom) [][]geom.Point {
	result := [][]geom.Point{}

	switch t := g.(type) {
	case geom.Polygon:
		for _, ring := range t {
			result = append(result, []geom.Point(ring))
		}
	case geom.MultiPolygon:
		for _, poly := range t {
			result = append(result, geomPaths(poly)...)
		}
	case geom.LineString:
		result = append(result, []geom.Point(t))
	case geom.MultiLineString:
		for _, line := range t {
			result = append(result, []geom.Point(line))
		}
	default:
		return nil
	}
	return result
}

// Skips anything outside the extent's latitudes, saves projecting the whole world at 10m
func (m *Map) inLatRange(path []geom.Point) bool {
	for _, pt := range path {
		if pt.Y >= m.opts.Extent.LatMin-1 && pt.Y <= m.opts.Extent.LatMax+1 {
			return true
		}
	}
	return false
}

// projectPath - lon/lat points to map coordinates. Points that fail to project are dropped
func (m *Map) projectPath(path []geom.Point) plotter.XYs {
	result := make(plotter.XYs, 0, len(path))
	for _, pt := range path {
		x, y, err := m.toMap(pt.X, pt.Y)
		if err != nil {
			continue
		}
		result = append(result, plotter.XY{X: x, Y: y})
	}
	return result
}

func (m *Map) polygonPlotter(geoms []geom.Geom, fill color.Color) (plot.Plotter, error) {
	rings := []plotter.XYer{}
	for _, g := range geoms {
		for _, path := range geomPaths(g) {
			if !m.inLatRange(path) {
				continue
			}
			xys := m.projectPath(path)
			if len(xys) >= 3 {
				rings = append(rings, xys)
			}
		}
	}

	// Empty layer still goes on the map, just draws nothing
	if len(rings) <= 0 {
		return nil, nil
	}

	poly, err := plotter.NewPolygon(rings...)
	if err != nil {
		return nil, err
	}
	poly.Color = fill
	poly.LineStyle.Width = 0
	return poly, nil
}

func (m *Map) linePlotters(geoms []geom.Geom, colour color.Color, width float64) ([]plot.Plotter, error) {
	result := []plot.Plotter{}
	for _, g := range geoms {
		for _, path := range geomPaths(g) {
			if !m.inLatRange(path) {
				continue
			}
			xys := m.projectPath(path)
			if len(xys) < 2 {
				continue
			}

			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			line.Color = colour
			line.Width = vg.Points(width)
			result = append(result, line)
		}
	}
	return result, nil
}

type LandOptions struct {
	Scale string
	Color color.Color
	Alpha float64
	// Natural Earth land leaves slivers where polygons meet at the dateline, over Wrangel
	// Island and Chukotka. Covers them with small patches
	FillDatelineGap bool
	ZOrder          int
}

func DefaultLandOptions() LandOptions {
	return LandOptions{Scale: defaultScale, Color: defaultFeatureColour, Alpha: 1, FillDatelineGap: true, ZOrder: 2}
}

// Patches over the dateline seams, lon/lat
var datelinePatches = []geom.Polygon{
	rectangle(-180.1, -179.9, 71.01, 71.51), // Wrangel Island
	rectangle(-180.1, -179.9, 65.1, 68.96),  // Chukotka
}

// rectangle - lon/lat box, edges densified so they curve properly once projected
func rectangle(lonMin float64, lonMax float64, latMin float64, latMax float64) geom.Polygon {
	ring := []geom.Point{}
	for _, lon := range samples(lonMin, lonMax, 0.05) {
		ring = append(ring, geom.Point{X: lon, Y: latMin})
	}
	for _, lat := range samples(latMin, latMax, 0.05) {
		ring = append(ring, geom.Point{X: lonMax, Y: lat})
	}
	lons := samples(lonMin, lonMax, 0.05)
	for c := len(lons) - 1; c >= 0; c-- {
		ring = append(ring, geom.Point{X: lons[c], Y: latMax})
	}
	lats := samples(latMin, latMax, 0.05)
	for c := len(lats) - 1; c >= 0; c-- {
		ring = append(ring, geom.Point{X: lonMin, Y: lats[c]})
	}
	return geom.Polygon{ring}
}

// AddLand - filled Natural Earth land polygons
func (m *Map) AddLand(opts LandOptions) error {
	path, err := featurePath(m.opts.FeatureDir, opts.Scale, "land")
	if err != nil {
		return err
	}

	geoms, err := ReadFeatures(path)
	if err != nil {
		return err
	}

	fill := withAlpha(opts.Color, opts.Alpha)
	plotters := []plot.Plotter{}

	poly, err := m.polygonPlotter(geoms, fill)
	if err != nil {
		return errors.Wrap(err, "failed to draw land")
	}
	if poly != nil {
		plotters = append(plotters, poly)
	}

	// Separate polygon so patch winding can't punch holes in the land
	if opts.FillDatelineGap {
		patches := []geom.Geom{}
		for _, patch := range datelinePatches {
			patches = append(patches, patch)
		}
		poly, err = m.polygonPlotter(patches, fill)
		if err != nil {
			return errors.Wrap(err, "failed to draw dateline patches")
		}
		if poly != nil {
			plotters = append(plotters, poly)
		}
	}

	m.addLayer(opts.ZOrder, plotters...)
	return nil
}

type CoastOptions struct {
	Scale     string
	Color     color.Color
	LineWidth float64
	Alpha     float64
	ZOrder    int
}

func DefaultCoastOptions() CoastOptions {
	return CoastOptions{Scale: defaultScale, Color: defaultFeatureColour, LineWidth: 1, Alpha: 1, ZOrder: 3}
}

// AddCoast - Natural Earth coastlines
func (m *Map) AddCoast(opts CoastOptions) error {
	path, err := featurePath(m.opts.FeatureDir, opts.Scale, "coastline")
	if err != nil {
		return err
	}

	geoms, err := ReadFeatures(path)
	if err != nil {
		return err
	}

	lines, err := m.linePlotters(geoms, withAlpha(opts.Color, opts.Alpha), opts.LineWidth)
	if err != nil {
		return errors.Wrap(err, "failed to draw coastline")
	}

	m.addLayer(opts.ZOrder, lines...)
	return nil
}
