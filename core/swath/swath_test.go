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
	"testing"
	"time"

	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/leadgeom"
	"github.com/seaicelab/leadkit/core/satfilename"
)

// In-memory Dataset so we don't need real MODIS granules around
type fakeDataset struct {
	shapes map[string][]int
	data   map[string][]float64
	text   map[string]string
	floats map[string][]float64
	closed bool
}

func (f *fakeDataset) VarShape(name string) ([]int, error) {
	if s, ok := f.shapes[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("dataset %v not found", name)
}
func (f *fakeDataset) ReadVar(name string) ([]float64, error) {
	if d, ok := f.data[name]; ok {
		return append([]float64{}, d...), nil
	}
	return nil, fmt.Errorf("dataset %v not found", name)
}
func (f *fakeDataset) ReadAttrText(varName string, attrName string) (string, error) {
	if t, ok := f.text[varName+"/"+attrName]; ok {
		return t, nil
	}
	return "", fmt.Errorf("attribute %v not found on %v", attrName, varName)
}
func (f *fakeDataset) ReadAttrFloats(varName string, attrName string) ([]float64, error) {
	if v, ok := f.floats[varName+"/"+attrName]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("attribute %v not found on %v", attrName, varName)
}
func (f *fakeDataset) Close() error {
	f.closed = true
	return nil
}

func makeEmissiveDataset() *fakeDataset {
	return &fakeDataset{
		shapes: map[string][]int{"EV_1KM_Emissive": {2, 2, 3}},
		data: map[string][]float64{"EV_1KM_Emissive": {
			1, 2, 3, 4, 5, 6,
			100, 65535, 40000, 0, 32767, 200,
		}},
		text: map[string]string{"EV_1KM_Emissive/band_names": "29,30"},
		floats: map[string][]float64{
			"EV_1KM_Emissive/radiance_scales":  {0.1, 0.5},
			"EV_1KM_Emissive/radiance_offsets": {10, 20},
			"EV_1KM_Emissive/valid_range":      {0, 32767},
			"EV_1KM_Emissive/_FillValue":       {65535},
		},
	}
}

func Example_readBand() {
	ds := makeEmissiveDataset()

	b, err := ReadBand(ds, "EV_1KM_Emissive", "30", Radiance)
	fmt.Printf("%v|%v %v %vx%v\n", err, b.Name, b.Kind, b.Rows, b.Cols)
	fmt.Println(b.Data)
	fmt.Println(b.Valid)

	v, ok := b.At(1, 2)
	fmt.Printf("%v %v\n", v, ok)

	s := b.Stats()
	fmt.Printf("%v %v %v %v %v\n", s.ValidCount, s.InvalidCount, s.Min, s.Max, s.Mean)

	lo, hi, err := b.Percentiles(0, 100)
	fmt.Printf("%v %v %v\n", lo, hi, err)
	lo, hi, err = b.Percentiles(50, 100)
	fmt.Printf("%v %v %v\n", lo, hi, err)

	fmt.Println(b.Image(-10, 90).Pix)

	// Output:
	// <nil>|30 radiance 2x3
	// [40 NaN NaN -10 16373.5 90]
	// [true false false true true true]
	// 90 true
	// 4 2 -10 16373.5 4123.375
	// -10 16373.5 <nil>
	// 40 16373.5 <nil>
	// [128 0 0 0 255 255]
}

func Example_readBandErrors() {
	ds := makeEmissiveDataset()

	_, err := ReadBand(ds, "EV_1KM_Emissive", "31", Radiance)
	fmt.Println(err)

	_, err = ReadBand(ds, "EV_1KM_Emissive", "30", Reflectance)
	fmt.Println(err)

	_, err = ReadBand(ds, "EV_1KM_Emissive", "30", Calibration(7))
	fmt.Println(err)

	_, err = LoadBand("never-opened.hdf", "EV_1KM_Emissive", "30", Calibration(7))
	code, _ := errorwithcode.CodeOf(err)
	fmt.Println(code)

	_, err = ReadBand(ds, "EV_250_Aggr1km_RefSB", "1", Reflectance)
	fmt.Println(err)

	// Output:
	// band 31 not found in EV_1KM_Emissive, available: 29,30
	// attribute reflectance_scales not found on EV_1KM_Emissive
	// reflectance or radiance not specified, got: Calibration(7)
	// bad-input
	// failed to read band names of EV_250_Aggr1km_RefSB: attribute band_names not found on EV_250_Aggr1km_RefSB
}

func Example_calibrationFromString() {
	fmt.Println(CalibrationFromString("Reflectance"))
	fmt.Println(CalibrationFromString(" radiance"))
	fmt.Println(CalibrationFromString("brightness"))

	// Output:
	// reflectance <nil>
	// radiance <nil>
	// reflectance reflectance or radiance not specified, got: brightness
}

func Example_readGeo() {
	ds := &fakeDataset{
		shapes: map[string][]int{"Latitude": {2, 2}, "Longitude": {2, 2}},
		data: map[string][]float64{
			"Latitude":  {70, 71, 72, 73},
			"Longitude": {-170, 10, 190, -0.5},
		},
	}

	g, err := ReadGeo(ds, DefaultGeoVars)
	fmt.Printf("%v|%vx%v\n", err, g.Rows, g.Cols)
	fmt.Println(g.Lat)
	fmt.Println(g.Lon)
	fmt.Println(g.Footprint())

	px, km := g.NearestPixel(leadgeom.LatLon{Lat: 72.1, Lon: -170})
	fmt.Printf("%v %.1f\n", px, km)

	_, err = ReadGeo(ds, GeoVars{Lat: "geolocation_data/latitude", Lon: "Longitude"})
	fmt.Println(err)

	// Output:
	// <nil>|2x2
	// [70 71 72 73]
	// [190 10 190 359.5]
	// [{70 190} {71 10} {73 359.5} {72 190}]
	// (0,1) 11.1
	// dataset geolocation_data/latitude not found
}

func Example_readAttr() {
	ds := makeEmissiveDataset()

	a, err := readAttr(ds, "EV_1KM_Emissive", "band_names")
	fmt.Printf("%v|%v|%v\n", err, a.IsText(), a.Text)
	a, err = readAttr(ds, "EV_1KM_Emissive", "valid_range")
	fmt.Printf("%v|%v|%v\n", err, a.IsText(), a.Values)
	_, err = readAttr(ds, "EV_1KM_Emissive", "units")
	fmt.Println(err)

	g, err := readGrid(ds, "EV_1KM_Emissive")
	fmt.Printf("%v|%v|%v\n", err, g.Shape, len(g.Data))

	// Output:
	// <nil>|true|29,30
	// <nil>|false|[0 32767]
	// failed to read attribute units of EV_1KM_Emissive: attribute units not found on EV_1KM_Emissive
	// <nil>|[2 2 3]|12
}

func Example_getDate() {
	t, err := GetDate("/data/MOD021KM.A2000066.2255.061.2017171220013.hdf", satfilename.MODIS)
	fmt.Printf("%v|%v\n", t.Format(time.RFC3339), err)

	_, err = GetDate("MOD021KM.hdf", satfilename.MODIS)
	code, _ := errorwithcode.CodeOf(err)
	fmt.Printf("%v|%v\n", code, err)

	// Output:
	// 2000-03-06T22:55:00Z|<nil>
	// malformed-file-name|file MOD021KM.hdf: date marker ".A" not found in file name: MOD021KM.hdf
}

func TestGetGeoMissingFile(t *testing.T) {
	_, err := GetGeo("./no-such-dir/MOD03.A2000066.2255.061.2017171220013.hdf")
	if code, ok := errorwithcode.CodeOf(err); !ok || code != errorwithcode.CodeFileAccess {
		t.Errorf("expected file access error, got: %v", err)
	}
}

func TestReadersMissingFile(t *testing.T) {
	const file = "./no-such-dir/MOD021KM.A2000066.2255.061.2017171220013.hdf"

	_, dataErr := GetHDFData(file, "EV_1KM_RefSB")
	_, attrErr := GetHDFAttr(file, "EV_1KM_RefSB", "band_names")
	_, bandErr := LoadBand(file, "EV_1KM_RefSB", "8", Reflectance)

	for c, err := range []error{dataErr, attrErr, bandErr} {
		if code, ok := errorwithcode.CodeOf(err); !ok || code != errorwithcode.CodeFileAccess {
			t.Errorf("reader %v: expected file access error, got: %v", c, err)
		}
	}
}

func TestEmptyBandStats(t *testing.T) {
	b := Band{Name: "1", Rows: 1, Cols: 2, Data: []float64{0, 0}, Valid: []bool{false, false}}
	s := b.Stats()
	if s.ValidCount != 0 || s.InvalidCount != 2 || s.Mean == s.Mean {
		t.Errorf("expected no valid pixels and NaN mean, got %+v", s)
	}
	if _, _, err := b.Percentiles(2, 98); err == nil {
		t.Errorf("expected error for band with no valid pixels")
	}
}
