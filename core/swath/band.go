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
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/utils"
	"gonum.org/v1/gonum/stat"
)

type Calibration int

const (
	Reflectance Calibration = iota
	Radiance
)

func (c Calibration) String() string {
	switch c {
	case Reflectance:
		return "reflectance"
	case Radiance:
		return "radiance"
	}
	return fmt.Sprintf("Calibration(%v)", int(c))
}

// CalibrationFromString - "reflectance" or "radiance"
func CalibrationFromString(s string) (Calibration, error) {
	for _, c := range []Calibration{Reflectance, Radiance} {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, errorwithcode.MakeBadInputError(fmt.Errorf("reflectance or radiance not specified, got: %v", s))
}

// Band - one calibrated band. Data is row-major, invalid pixels are NaN with Valid false
type Band struct {
	Name  string
	Kind  Calibration
	Rows  int
	Cols  int
	Data  []float64
	Valid []bool
}

func (b Band) At(row int, col int) (float64, bool) {
	idx := row*b.Cols + col
	return b.Data[idx], b.Valid[idx]
}

// LoadBand - loads band (as named in the dataset's band_names attribute, eg "30") from file,
// applying the scale and offset for the given calibration. Fill values and values outside
// valid_range are marked invalid
func LoadBand(file string, dataset string, band string, kind Calibration) (Band, error) {
	if kind != Reflectance && kind != Radiance {
		return Band{}, errorwithcode.MakeBadInputError(fmt.Errorf("reflectance or radiance not specified, got: %v", kind))
	}

	ds, err := Open(file)
	if err != nil {
		return Band{}, errorwithcode.MakeFileAccessError(file, err)
	}
	defer ds.Close()

	return ReadBand(ds, dataset, band, kind)
}

// ReadBand - same as LoadBand but from an already open dataset
func ReadBand(ds Dataset, dataset string, band string, kind Calibration) (Band, error) {
	if kind != Reflectance && kind != Radiance {
		return Band{}, errorwithcode.MakeBadInputError(fmt.Errorf("reflectance or radiance not specified, got: %v", kind))
	}

	names, err := ds.ReadAttrText(dataset, "band_names")
	if err != nil {
		return Band{}, errors.Wrapf(err, "failed to read band names of %v", dataset)
	}

	bandIdx := -1
	for c, name := range strings.Split(names, ",") {
		if strings.TrimSpace(name) == band {
			bandIdx = c
			break
		}
	}
	if bandIdx < 0 {
		return Band{}, errorwithcode.MakeBadInputError(fmt.Errorf("band %v not found in %v, available: %v", band, dataset, names))
	}

	grid, err := readGrid(ds, dataset)
	if err != nil {
		return Band{}, err
	}
	if len(grid.Shape) != 3 {
		return Band{}, fmt.Errorf("expected %v to have 3 dimensions (band, row, col), got %v", dataset, grid.Shape)
	}
	if bandIdx >= grid.Shape[0] {
		return Band{}, fmt.Errorf("band %v index %v out of range for %v with shape %v", band, bandIdx, dataset, grid.Shape)
	}

	scales, err := ds.ReadAttrFloats(dataset, kind.String()+"_scales")
	if err != nil {
		return Band{}, err
	}
	offsets, err := ds.ReadAttrFloats(dataset, kind.String()+"_offsets")
	if err != nil {
		return Band{}, err
	}
	if bandIdx >= len(scales) || bandIdx >= len(offsets) {
		return Band{}, fmt.Errorf("%v scales/offsets of %v don't cover band %v", kind, dataset, band)
	}

	validRange, err := ds.ReadAttrFloats(dataset, "valid_range")
	if err != nil {
		return Band{}, err
	}
	if len(validRange) != 2 {
		return Band{}, fmt.Errorf("expected valid_range of %v to have 2 values, got %v", dataset, validRange)
	}

	fill, err := ds.ReadAttrFloats(dataset, "_FillValue")
	if err != nil {
		return Band{}, err
	}
	if len(fill) <= 0 {
		return Band{}, fmt.Errorf("_FillValue of %v is empty", dataset)
	}

	rows, cols := grid.Shape[1], grid.Shape[2]
	planeSize := rows * cols
	raw := grid.Data[bandIdx*planeSize : (bandIdx+1)*planeSize]

	result := Band{
		Name:  band,
		Kind:  kind,
		Rows:  rows,
		Cols:  cols,
		Data:  make([]float64, planeSize),
		Valid: make([]bool, planeSize),
	}

	calibrate(raw, validRange[0], validRange[1], fill[0], scales[bandIdx], offsets[bandIdx], result.Data, result.Valid)
	return result, nil
}

func calibrate(raw []float64, validMin float64, validMax float64, fill float64, scale float64, offset float64, data []float64, valid []bool) {
	for c, v := range raw {
		if v > validMax || v < validMin || v == fill || math.IsNaN(v) {
			data[c] = math.NaN()
			valid[c] = false
			continue
		}
		data[c] = (v - offset) * scale
		valid[c] = true
	}
}

func (b Band) validValues() []float64 {
	result := make([]float64, 0, len(b.Data))
	for c, v := range b.Data {
		if b.Valid[c] {
			result = append(result, v)
		}
	}
	return result
}

type BandStats struct {
	ValidCount   int
	InvalidCount int
	Min          float64
	Max          float64
	Mean         float64
	StdDev       float64
}

// Stats - statistics of the valid pixels. Min/Max/Mean/StdDev are NaN if nothing is valid
func (b Band) Stats() BandStats {
	values := b.validValues()
	result := BandStats{ValidCount: len(values), InvalidCount: len(b.Data) - len(values)}
	if len(values) <= 0 {
		result.Min, result.Max, result.Mean, result.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return result
	}

	result.Min, result.Max = values[0], values[0]
	for _, v := range values {
		result.Min = math.Min(result.Min, v)
		result.Max = math.Max(result.Max, v)
	}
	result.Mean, result.StdDev = stat.MeanStdDev(values, nil)
	return result
}

// Percentiles - valid pixel values at the given percentiles (0-100), for stretching quicklooks
func (b Band) Percentiles(lo float64, hi float64) (float64, float64, error) {
	if lo < 0 || hi > 100 || lo >= hi {
		return 0, 0, errorwithcode.MakeBadInputError(fmt.Errorf("invalid percentile range: %v-%v", lo, hi))
	}

	values := b.validValues()
	if len(values) <= 0 {
		return 0, 0, fmt.Errorf("band %v has no valid pixels", b.Name)
	}

	sort.Float64s(values)
	return stat.Quantile(lo/100, stat.Empirical, values, nil), stat.Quantile(hi/100, stat.Empirical, values, nil), nil
}

// Image - greyscale rendering, lo maps to black and hi to white. Invalid pixels are black
func (b Band) Image(lo float64, hi float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Cols, b.Rows))

	span := hi - lo
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			v, ok := b.At(row, col)
			if !ok {
				continue
			}

			level := 0.0
			if span > 0 {
				level = (v - lo) / span * 255
			} else if v >= hi {
				level = 255
			}
			img.SetGray(col, row, color.Gray{Y: uint8(math.Round(utils.Clamp(level, 0, 255)))})
		}
	}
	return img
}
