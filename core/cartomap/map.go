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

// Map decoration for swath and lead plots: Natural Earth land and coastlines, a
// lat/lon grid, the acquisition date and lead tracks, drawn onto a projected gonum
// plot. Layers are drawn in z-order, lowest first, regardless of the order they
// were added.
package cartomap

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// North polar stereographic, true scale at 70N (NSIDC sea ice grids)
const DefaultProjection = "+proj=stere +lat_0=90 +lat_ts=70 +lon_0=-45 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"

const lonLatProjection = "+proj=longlat +datum=WGS84 +no_defs"

// Extent - area shown, degrees. Longitudes may run past 180 (eg 170 to 200) to span the dateline
type Extent struct {
	LonMin float64
	LonMax float64
	LatMin float64
	LatMax float64
}

var DefaultExtent = Extent{LonMin: -180, LonMax: 180, LatMin: 60, LatMax: 90}

func (e Extent) validate() error {
	if e.LatMin < -90 || e.LatMax > 90 || e.LatMin >= e.LatMax {
		return errorwithcode.MakeBadInputError(fmt.Errorf("invalid latitude extent: %v to %v", e.LatMin, e.LatMax))
	}
	if e.LonMin >= e.LonMax || e.LonMax-e.LonMin > 360 {
		return errorwithcode.MakeBadInputError(fmt.Errorf("invalid longitude extent: %v to %v", e.LonMin, e.LonMax))
	}
	return nil
}

type MapOptions struct {
	// proj4 definition of the map projection, empty = DefaultProjection
	Projection string
	// Zero value = DefaultExtent
	Extent Extent
	// Directory holding Natural Earth shapefiles (ne_50m_land.shp etc)
	FeatureDir string
	Title      string
}

type layer struct {
	z        int
	order    int
	plotters []plot.Plotter
}

type Map struct {
	opts   MapOptions
	toMap  proj.Transformer
	bounds geom.Bounds
	layers []layer
}

func NewMap(opts MapOptions) (*Map, error) {
	if len(opts.Projection) <= 0 {
		opts.Projection = DefaultProjection
	}
	if opts.Extent == (Extent{}) {
		opts.Extent = DefaultExtent
	}
	if err := opts.Extent.validate(); err != nil {
		return nil, err
	}

	lonLatSR, err := proj.Parse(lonLatProjection)
	if err != nil {
		return nil, errors.Wrap(err, "while parsing lon/lat projection")
	}
	mapSR, err := proj.Parse(opts.Projection)
	if err != nil {
		return nil, errorwithcode.MakeBadInputError(errors.Wrapf(err, "while parsing map projection %v", opts.Projection))
	}
	toMap, err := lonLatSR.NewTransform(mapSR)
	if err != nil {
		return nil, errors.Wrap(err, "while creating map transform")
	}

	m := &Map{opts: opts, toMap: toMap}
	m.bounds, err = m.projectExtent()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Project - lon/lat (degrees) to map coordinates
func (m *Map) Project(lon float64, lat float64) (float64, float64, error) {
	return m.toMap(lon, lat)
}

// Bounds - projected bounding box of the map extent
func (m *Map) Bounds() geom.Bounds {
	return m.bounds
}

// Walks the extent's edges to find its projected bounding box. Edges curve in most
// projections so corners alone aren't enough
func (m *Map) projectExtent() (geom.Bounds, error) {
	e := m.opts.Extent
	b := geom.Bounds{
		Min: geom.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: geom.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}

	add := func(lon, lat float64) {
		x, y, err := m.toMap(lon, lat)
		if err != nil || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return
		}
		b.Min.X = math.Min(b.Min.X, x)
		b.Min.Y = math.Min(b.Min.Y, y)
		b.Max.X = math.Max(b.Max.X, x)
		b.Max.Y = math.Max(b.Max.Y, y)
	}

	for _, lon := range samples(e.LonMin, e.LonMax, 1) {
		add(lon, e.LatMin)
		add(lon, e.LatMax)
	}
	for _, lat := range samples(e.LatMin, e.LatMax, 1) {
		add(e.LonMin, lat)
		add(e.LonMax, lat)
	}

	if b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y {
		return b, errorwithcode.MakeBadInputError(fmt.Errorf("extent %+v could not be projected with %v", e, m.opts.Projection))
	}
	return b, nil
}

// samples - from lo to hi inclusive, at most step apart
func samples(lo float64, hi float64, step float64) []float64 {
	n := int(math.Ceil((hi - lo) / step))
	if n < 1 {
		n = 1
	}
	result := make([]float64, n+1)
	for c := 0; c <= n; c++ {
		result[c] = lo + (hi-lo)*float64(c)/float64(n)
	}
	return result
}

func (m *Map) addLayer(z int, plotters ...plot.Plotter) {
	m.layers = append(m.layers, layer{z: z, order: len(m.layers), plotters: plotters})
}

// LayerCount - number of layers added so far
func (m *Map) LayerCount() int {
	return len(m.layers)
}

// Save - draws all layers in z-order and writes the map. Format comes from the extension
func (m *Map) Save(path string, width vg.Length, height vg.Length) error {
	p := plot.New()
	p.Title.Text = m.opts.Title
	p.BackgroundColor = color.White

	ordered := make([]layer, len(m.layers))
	copy(ordered, m.layers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].z < ordered[j].z })

	for _, l := range ordered {
		p.Add(l.plotters...)
	}

	// Adding expands the axes to fit everything, but we only want the extent
	p.X.Min, p.X.Max = m.bounds.Min.X, m.bounds.Max.X
	p.Y.Min, p.Y.Max = m.bounds.Min.Y, m.bounds.Max.Y
	p.HideAxes()

	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "failed to save map: %v", path)
	}
	return nil
}

// withAlpha - c with its opacity scaled by alpha (0-1)
func withAlpha(c color.Color, alpha float64) color.Color {
	if c == nil {
		c = color.Black
	}
	if alpha >= 1 || alpha < 0 {
		return c
	}
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	nrgba.A = uint8(math.Round(float64(nrgba.A) * alpha))
	return nrgba
}
