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

package swath

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/leadgeom"
	"github.com/seaicelab/leadkit/core/satfilename"
)

// Geolocation - per-pixel coordinates of a swath, row-major. Lon is in [0, 360)
type Geolocation struct {
	Rows int
	Cols int
	Lat  []float64
	Lon  []float64
}

// GeoVars - names of the lat/lon datasets in a geolocation file
type GeoVars struct {
	Lat string
	Lon string
}

// MOD03/MYD03 SDS names. VIIRS geolocation sits in the geolocation_data group, which needs
// flattening (or different names) to be read here
var DefaultGeoVars = GeoVars{Lat: "Latitude", Lon: "Longitude"}

// GetGeo - reads lat/lon from a geolocation file
func GetGeo(geofile string) (Geolocation, error) {
	return GetGeoWithVars(geofile, DefaultGeoVars)
}

func GetGeoWithVars(geofile string, vars GeoVars) (Geolocation, error) {
	ds, err := Open(geofile)
	if err != nil {
		return Geolocation{}, errorwithcode.MakeFileAccessError(geofile, err)
	}
	defer ds.Close()

	return ReadGeo(ds, vars)
}

// ReadGeo - reads lat/lon from an open geolocation dataset
func ReadGeo(ds Dataset, vars GeoVars) (Geolocation, error) {
	lat, err := readGrid(ds, vars.Lat)
	if err != nil {
		return Geolocation{}, err
	}
	lon, err := readGrid(ds, vars.Lon)
	if err != nil {
		return Geolocation{}, err
	}

	if len(lat.Shape) != 2 || len(lon.Shape) != 2 || lat.Shape[0] != lon.Shape[0] || lat.Shape[1] != lon.Shape[1] {
		return Geolocation{}, fmt.Errorf("expected 2D lat/lon of the same shape, got %v and %v", lat.Shape, lon.Shape)
	}

	for c, v := range lon.Data {
		lon.Data[c] = leadgeom.NormaliseLon(v)
	}

	return Geolocation{Rows: lat.Shape[0], Cols: lat.Shape[1], Lat: lat.Data, Lon: lon.Data}, nil
}

// Footprint - the outline of the swath, walking its edge pixels clockwise from the top left.
// Useful to plot where an image is without drawing every pixel
func (g Geolocation) Footprint() []leadgeom.LatLon {
	result := []leadgeom.LatLon{}
	if g.Rows <= 0 || g.Cols <= 0 {
		return result
	}

	add := func(row, col int) {
		idx := row*g.Cols + col
		result = append(result, leadgeom.LatLon{Lat: g.Lat[idx], Lon: g.Lon[idx]})
	}

	for col := 0; col < g.Cols; col++ {
		add(0, col)
	}
	for row := 1; row < g.Rows; row++ {
		add(row, g.Cols-1)
	}
	for col := g.Cols - 2; col >= 0 && g.Rows > 1; col-- {
		add(g.Rows-1, col)
	}
	for row := g.Rows - 2; row > 0 && g.Cols > 1; row-- {
		add(row, 0)
	}
	return result
}

// NearestPixel - pixel closest to pt, and roughly how far away it is in km. Uses a flat
// approximation around pt, good enough at swath pixel scales
func (g Geolocation) NearestPixel(pt leadgeom.LatLon) (image.Point, float64) {
	const kmPerDegree = 111.2

	best := image.Point{X: -1, Y: -1}
	bestDist := math.Inf(1)
	cosLat := math.Cos(pt.Lat * math.Pi / 180)
	ptLon := leadgeom.NormaliseLon(pt.Lon)

	for c := range g.Lat {
		dLat := g.Lat[c] - pt.Lat
		dLon := math.Abs(g.Lon[c] - ptLon)
		if dLon > 180 {
			dLon = 360 - dLon
		}
		dLon *= cosLat

		dist := dLat*dLat + dLon*dLon
		if dist < bestDist {
			bestDist = dist
			best = image.Point{X: c % g.Cols, Y: c / g.Cols}
		}
	}

	return best, math.Sqrt(bestDist) * kmPerDegree
}

// GetDate - acquisition time from a geolocation or imagery file name
func GetDate(fileName string, sensor satfilename.Sensor) (time.Time, error) {
	t, err := sensor.AcquisitionTime(fileName)
	if err != nil {
		return t, errorwithcode.MakeMalformedFileNameError("", fileName, err)
	}
	return t, nil
}
