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

// Geodesic resampling of sea ice lead tracks. Leads come from digitised imagery with
// uneven vertex spacing; downstream analysis needs points a fixed arc distance apart.
package leadgeom

import (
	"fmt"
	"math"

	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/tidwall/geodesic"
)

// LatLon - a point on the ellipsoid, degrees
type LatLon struct {
	Lat float64
	Lon float64
}

const (
	DefaultStepKm  = 10.0
	DefaultErrorKm = 1.0
)

// SpacingOptions - zero values are replaced by defaults
type SpacingOptions struct {
	// Desired arc distance between output points
	StepKm float64
	// Resolution of the waypoint search along each geodesic, output spacing is usually within ErrorKm/2 of StepKm
	ErrorKm float64
	// nil = WGS84
	Ellipsoid *geodesic.Ellipsoid
}

func (o SpacingOptions) withDefaults() (SpacingOptions, error) {
	if o.StepKm < 0 || math.IsNaN(o.StepKm) {
		return o, errorwithcode.MakeBadInputError(fmt.Errorf("step must be positive, got: %v km", o.StepKm))
	}
	if o.ErrorKm < 0 || math.IsNaN(o.ErrorKm) {
		return o, errorwithcode.MakeBadInputError(fmt.Errorf("error must be positive, got: %v km", o.ErrorKm))
	}

	if o.StepKm == 0 {
		o.StepKm = DefaultStepKm
	}
	if o.ErrorKm == 0 {
		o.ErrorKm = DefaultErrorKm
	}
	if o.Ellipsoid == nil {
		o.Ellipsoid = geodesic.WGS84
	}

	// Otherwise the waypoint index rounds to 0 and we'd never move
	if o.ErrorKm > o.StepKm {
		return o, errorwithcode.MakeBadInputError(fmt.Errorf("error (%v km) must not be larger than step (%v km)", o.ErrorKm, o.StepKm))
	}
	return o, nil
}

// NormaliseLon - longitude in [0, 360)
func NormaliseLon(lon float64) float64 {
	result := math.Mod(lon, 360)
	if result < 0 {
		result += 360
	}
	// -1e-15 + 360 rounds to 360
	if result >= 360 {
		result = 0
	}
	return result
}

// Returns distance in km and starting azimuth of the geodesic from a to b
func inverseKm(e *geodesic.Ellipsoid, a LatLon, b LatLon) (float64, float64) {
	var s12, azi1, azi2 float64
	e.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &s12, &azi1, &azi2)
	return s12 / 1000, azi1
}

func directKm(e *geodesic.Ellipsoid, from LatLon, azi float64, km float64) LatLon {
	var lat2, lon2, azi2 float64
	e.Direct(from.Lat, from.Lon, azi, km*1000, &lat2, &lon2, &azi2)
	return LatLon{Lat: lat2, Lon: lon2}
}

// SpaceEvenly - resamples a lead so consecutive output points are StepKm apart along the
// geodesic. The first output point is the first lead point. From the current anchor, the
// first lead point further than StepKm away is found, the geodesic to it is split into
// segments of about ErrorKm, and the waypoint closest to StepKm becomes the next output
// point and the new anchor. Stops once the last lead point is within StepKm of the anchor.
// Output longitudes are in [0, 360). lead is not modified
func SpaceEvenly(lead []LatLon, opts SpacingOptions) ([]LatLon, error) {
	if len(lead) <= 0 {
		return nil, errorwithcode.MakeBadInputError(fmt.Errorf("lead has no points"))
	}

	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	for c, pt := range lead {
		if math.IsNaN(pt.Lat) || math.IsNaN(pt.Lon) || pt.Lat < -90 || pt.Lat > 90 {
			return nil, errorwithcode.MakeBadInputError(fmt.Errorf("invalid lead point %v: %v", c, pt))
		}
	}

	e := opts.Ellipsoid
	last := lead[len(lead)-1]
	newIndex := math.Round(opts.StepKm / opts.ErrorKm)

	result := []LatLon{{Lat: lead[0].Lat, Lon: NormaliseLon(lead[0].Lon)}}

	// ii is the last lead point already behind the anchor. A waypoint lies on the way to
	// lead[jj], so lead[jj] stays ahead and is the first candidate of the next scan
	anchor := lead[0]
	ii := 0
	for {
		if toEnd, _ := inverseKm(e, anchor, last); toEnd <= opts.StepKm {
			break
		}

		jj := ii + 1
		for ; jj < len(lead); jj++ {
			ds, azi := inverseKm(e, anchor, lead[jj])
			if ds > opts.StepKm {
				numSteps := math.Round(ds / opts.ErrorKm)
				next := directKm(e, anchor, azi, newIndex*ds/numSteps)
				next.Lon = NormaliseLon(next.Lon)

				result = append(result, next)
				anchor = next
				break
			}
		}

		// Can't happen while the end is more than a step away, but never spin
		if jj >= len(lead) {
			break
		}
		ii = jj - 1
	}

	return result, nil
}
