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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var leadCSVHeader = []string{"lat", "lon"}

// ReadLeadCSV - reads lat,lon rows. A non-numeric first row is taken as the header
func ReadLeadCSV(r io.Reader) ([]LatLon, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 2
	cr.Comment = '#'

	result := []LatLon{}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read lead CSV")
		}

		lat, latErr := strconv.ParseFloat(record[0], 64)
		lon, lonErr := strconv.ParseFloat(record[1], 64)
		if latErr != nil || lonErr != nil {
			if row == 1 {
				continue
			}
			return nil, fmt.Errorf("row %v: expected numeric lat,lon, got: %v", row, record)
		}

		result = append(result, LatLon{Lat: lat, Lon: lon})
	}

	return result, nil
}

func WriteLeadCSV(w io.Writer, points []LatLon) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leadCSVHeader); err != nil {
		return err
	}

	for _, pt := range points {
		err := cw.Write([]string{strconv.FormatFloat(pt.Lat, 'f', 6, 64), strconv.FormatFloat(pt.Lon, 'f', 6, 64)})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
