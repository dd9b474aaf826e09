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
	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/errorwithcode"
)

// Grid - a whole dataset, row-major with Shape giving the size of each dimension
type Grid struct {
	Shape []int
	Data  []float64
}

// Attr - an attribute value, Text for string attributes, Values for numeric ones
type Attr struct {
	Text   string
	Values []float64
}

func (a Attr) IsText() bool {
	return a.Values == nil
}

// GetHDFData - reads a whole dataset from a file, eg EV_250_Aggr1km_RefSB
func GetHDFData(file string, dataset string) (Grid, error) {
	ds, err := Open(file)
	if err != nil {
		return Grid{}, errorwithcode.MakeFileAccessError(file, err)
	}
	defer ds.Close()

	return readGrid(ds, dataset)
}

func readGrid(ds Dataset, dataset string) (Grid, error) {
	shape, err := ds.VarShape(dataset)
	if err != nil {
		return Grid{}, err
	}
	data, err := ds.ReadVar(dataset)
	if err != nil {
		return Grid{}, err
	}
	return Grid{Shape: shape, Data: data}, nil
}

// GetHDFAttr - reads one attribute of a dataset, eg reflectance_scales
func GetHDFAttr(file string, dataset string, attr string) (Attr, error) {
	ds, err := Open(file)
	if err != nil {
		return Attr{}, errorwithcode.MakeFileAccessError(file, err)
	}
	defer ds.Close()

	return readAttr(ds, dataset, attr)
}

func readAttr(ds Dataset, dataset string, attr string) (Attr, error) {
	if text, err := ds.ReadAttrText(dataset, attr); err == nil {
		return Attr{Text: text}, nil
	}

	values, err := ds.ReadAttrFloats(dataset, attr)
	if err != nil {
		return Attr{}, errors.Wrapf(err, "failed to read attribute %v of %v", attr, dataset)
	}
	return Attr{Values: values}, nil
}
