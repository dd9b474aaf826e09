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

// Reads MODIS/VIIRS level 1 swath files: calibrated bands, geolocation and the
// acquisition date. Files are read through netCDF-C, which handles VIIRS netCDF4
// directly and MODIS HDF4 SDS when built with HDF4 support.
package swath

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Dataset - what we need from an open swath file. Values come back as float64 whatever
// they're stored as on disk
type Dataset interface {
	VarShape(name string) ([]int, error)
	ReadVar(name string) ([]float64, error)
	ReadAttrText(varName string, attrName string) (string, error)
	ReadAttrFloats(varName string, attrName string) ([]float64, error)
	Close() error
}

// netCDFDataset - Implementation of Dataset backed by netCDF-C
type netCDFDataset struct {
	path string
	ds   netcdf.Dataset
}

// Open - opens a swath file read-only. Caller must Close it
func Open(path string) (Dataset, error) {
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %v", path)
	}
	return &netCDFDataset{path: path, ds: ds}, nil
}

func (d *netCDFDataset) Close() error {
	return d.ds.Close()
}

func (d *netCDFDataset) variable(name string) (netcdf.Var, error) {
	v, err := d.ds.Var(name)
	if err != nil {
		return v, errors.Wrapf(err, "dataset %v not found in %v", name, d.path)
	}
	return v, nil
}

func (d *netCDFDataset) VarShape(name string) ([]int, error) {
	v, err := d.variable(name)
	if err != nil {
		return nil, err
	}

	dims, err := v.Dims()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dimensions of %v", name)
	}

	shape := make([]int, len(dims))
	for c, dim := range dims {
		n, err := dim.Len()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read dimension %v of %v", c, name)
		}
		shape[c] = int(n)
	}
	return shape, nil
}

func readConverted[T constraints.Integer | constraints.Float](n uint64, read func([]T) error) ([]float64, error) {
	buf := make([]T, n)
	if err := read(buf); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	for c, v := range buf {
		result[c] = float64(v)
	}
	return result, nil
}

func (d *netCDFDataset) ReadVar(name string) ([]float64, error) {
	v, err := d.variable(name)
	if err != nil {
		return nil, err
	}

	n, err := v.Len()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read length of %v", name)
	}

	t, err := v.Type()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read type of %v", name)
	}

	var result []float64
	switch t {
	case netcdf.BYTE:
		result, err = readConverted(n, v.ReadInt8s)
	case netcdf.UBYTE:
		result, err = readConverted(n, v.ReadUint8s)
	case netcdf.SHORT:
		result, err = readConverted(n, v.ReadInt16s)
	case netcdf.USHORT:
		result, err = readConverted(n, v.ReadUint16s)
	case netcdf.INT:
		result, err = readConverted(n, v.ReadInt32s)
	case netcdf.UINT:
		result, err = readConverted(n, v.ReadUint32s)
	case netcdf.INT64:
		result, err = readConverted(n, v.ReadInt64s)
	case netcdf.UINT64:
		result, err = readConverted(n, v.ReadUint64s)
	case netcdf.FLOAT:
		result, err = readConverted(n, v.ReadFloat32s)
	case netcdf.DOUBLE:
		result, err = readConverted(n, v.ReadFloat64s)
	default:
		return nil, fmt.Errorf("dataset %v has unsupported type: %v", name, t)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v from %v", name, d.path)
	}
	return result, nil
}

func (d *netCDFDataset) attr(varName string, attrName string) (netcdf.Attr, netcdf.Type, uint64, error) {
	v, err := d.variable(varName)
	if err != nil {
		return netcdf.Attr{}, 0, 0, err
	}

	a := v.Attr(attrName)
	t, err := a.Type()
	if err != nil {
		return a, 0, 0, errors.Wrapf(err, "attribute %v not found on %v", attrName, varName)
	}

	n, err := a.Len()
	if err != nil {
		return a, 0, 0, errors.Wrapf(err, "failed to read length of %v on %v", attrName, varName)
	}
	return a, t, n, nil
}

func (d *netCDFDataset) ReadAttrText(varName string, attrName string) (string, error) {
	a, t, n, err := d.attr(varName, attrName)
	if err != nil {
		return "", err
	}
	if t != netcdf.CHAR {
		return "", fmt.Errorf("attribute %v on %v is not text", attrName, varName)
	}

	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", errors.Wrapf(err, "failed to read %v on %v", attrName, varName)
	}

	// HDF4 strings are often null terminated
	for len(buf) > 0 && buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf), nil
}

func (d *netCDFDataset) ReadAttrFloats(varName string, attrName string) ([]float64, error) {
	a, t, n, err := d.attr(varName, attrName)
	if err != nil {
		return nil, err
	}

	var result []float64
	switch t {
	case netcdf.BYTE:
		result, err = readConverted(n, a.ReadInt8s)
	case netcdf.UBYTE:
		result, err = readConverted(n, a.ReadUint8s)
	case netcdf.SHORT:
		result, err = readConverted(n, a.ReadInt16s)
	case netcdf.USHORT:
		result, err = readConverted(n, a.ReadUint16s)
	case netcdf.INT:
		result, err = readConverted(n, a.ReadInt32s)
	case netcdf.UINT:
		result, err = readConverted(n, a.ReadUint32s)
	case netcdf.FLOAT:
		result, err = readConverted(n, a.ReadFloat32s)
	case netcdf.DOUBLE:
		result, err = readConverted(n, a.ReadFloat64s)
	default:
		return nil, fmt.Errorf("attribute %v on %v is not numeric", attrName, varName)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v on %v", attrName, varName)
	}
	return result, nil
}
