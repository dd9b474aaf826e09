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

// File name parser for MODIS/VIIRS level 1 products as downloaded from LAADS DAAC.
// Everything we know about a granule before opening it comes from the strict naming
// convention, eg:
//
//	MOD021KM.A2000066.2255.061.2017171220013.hdf
//	|        | |      |    |   |
//	|        | |      |    |   production time (YYYYDDDHHMMSS)
//	|        | |      |    collection
//	|        | |      acquisition HHMM (UTC)
//	|        | acquisition YYYYDDD
//	|        date marker
//	product short name
package satfilename

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/logger"
)

// Sensor - how files of a given sensor are recognised on disk
type Sensor struct {
	Name       string
	Extension  string // Includes the dot
	DateMarker string // Text immediately preceding the YYYYDDD.HHMM date field
}

var MODIS = Sensor{Name: "MODIS", Extension: ".hdf", DateMarker: ".A"}
var VIIRS = Sensor{Name: "VIIRS", Extension: ".nc", DateMarker: ".A"}

// SensorByName - only MODIS and VIIRS are understood
func SensorByName(name string) (Sensor, error) {
	switch name {
	case MODIS.Name:
		return MODIS, nil
	case VIIRS.Name:
		return VIIRS, nil
	}
	return Sensor{}, fmt.Errorf("unrecognized satellite type, got: %v", name)
}

// SatelliteLabels - product tags that identify the geolocation and imagery files of one satellite
type SatelliteLabels struct {
	Geo   string
	Image string
}

// Terra/MODIS, Aqua/MODIS
var DefaultMODISLabels = []SatelliteLabels{{Geo: "MOD03", Image: "MOD021KM"}, {Geo: "MYD03", Image: "MYD021KM"}}

// Suomi-NPP/VIIRS, NOAA-20/VIIRS
var DefaultVIIRSLabels = []SatelliteLabels{{Geo: "VNP03MOD", Image: "VNP02MOD"}, {Geo: "VJ103MOD", Image: "VJ102MOD"}}

func DefaultLabels(s Sensor) []SatelliteLabels {
	if s.Name == VIIRS.Name {
		return DefaultVIIRSLabels
	}
	return DefaultMODISLabels
}

// ParseSatelliteLabels - reads labels written as "GEO:IMAGE", eg "MOD03:MOD021KM"
func ParseSatelliteLabels(pairs []string) ([]SatelliteLabels, error) {
	result := []SatelliteLabels{}
	for _, pair := range pairs {
		parts := strings.Split(strings.TrimSpace(pair), ":")
		if len(parts) != 2 || len(parts[0]) <= 0 || len(parts[1]) <= 0 {
			return nil, fmt.Errorf("invalid satellite label \"%v\", expected GEO:IMAGE", pair)
		}
		result = append(result, SatelliteLabels{Geo: parts[0], Image: parts[1]})
	}
	return result, nil
}

const dateFieldLen = 12 // YYYYDDD.HHMM

// AcquisitionTime - grab the acquisition date from a geolocation or imagery file name. The
// file name may include a path
func (s Sensor) AcquisitionTime(fileName string) (time.Time, error) {
	return ParseAcquisitionTime(fileName, s.DateMarker)
}

// ParseAcquisitionTime - reads YYYYDDD.HHMM following the first occurrence of marker
func ParseAcquisitionTime(fileName string, marker string) (time.Time, error) {
	fileName = filepath.Base(fileName)

	markerPos := strings.Index(fileName, marker)
	if markerPos < 0 || len(marker) <= 0 {
		return time.Time{}, fmt.Errorf("date marker \"%v\" not found in file name: %v", marker, fileName)
	}

	di := markerPos + len(marker)
	if len(fileName) < di+dateFieldLen {
		return time.Time{}, fmt.Errorf("file name too short to hold a date: %v", fileName)
	}

	year, err := readDigits(fileName, di, 4, "year")
	if err != nil {
		return time.Time{}, err
	}
	doy, err := readDigits(fileName, di+4, 3, "day of year")
	if err != nil {
		return time.Time{}, err
	}
	hour, err := readDigits(fileName, di+8, 2, "hour")
	if err != nil {
		return time.Time{}, err
	}
	minute, err := readDigits(fileName, di+10, 2, "minute")
	if err != nil {
		return time.Time{}, err
	}

	daysInYear := 365
	if time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		daysInYear = 366
	}
	if doy < 1 || doy > daysInYear {
		return time.Time{}, fmt.Errorf("day of year %v out of range in file name: %v", doy, fileName)
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("time %02d:%02d out of range in file name: %v", hour, minute, fileName)
	}

	return time.Date(year, time.January, 1, hour, minute, 0, 0, time.UTC).AddDate(0, 0, doy-1), nil
}

func readDigits(fileName string, start int, count int, what string) (int, error) {
	field := fileName[start : start+count]
	for _, c := range field {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("failed to read %v from \"%v\" in file name: %v", what, field, fileName)
		}
	}
	return strconv.Atoi(field)
}

// FileNameMeta - everything in a LAADS file name
type FileNameMeta struct {
	Product         string
	AcquisitionTime time.Time
	Collection      string // eg 061
	ProductionTime  string // YYYYDDDHHMMSS, compared as a string
	Extension       string
}

func ParseFileName(fileName string, s Sensor) (FileNameMeta, error) {
	// We often get passed paths so here we ensure we're just dealing with the file name at the end
	fileName = filepath.Base(fileName)

	result := FileNameMeta{}

	acqTime, err := s.AcquisitionTime(fileName)
	if err != nil {
		return result, errors.Wrap(err, "Failed to parse meta from file name")
	}

	markerPos := strings.Index(fileName, s.DateMarker)
	result.Product = fileName[0:markerPos]
	result.AcquisitionTime = acqTime
	result.Extension = filepath.Ext(fileName)

	// Whatever's after the date: .COLLECTION.PRODUCTIONTIME.ext
	rest := strings.TrimSuffix(fileName[markerPos+len(s.DateMarker)+dateFieldLen:], result.Extension)
	fields := strings.Split(strings.TrimPrefix(rest, "."), ".")
	if len(fields) > 0 {
		result.Collection = fields[0]
	}
	if len(fields) > 1 {
		result.ProductionTime = fields[1]
	}

	return result, nil
}

// GranuleKey - identifies a granule regardless of when it was (re)processed
func (m FileNameMeta) GranuleKey() string {
	return m.Extension + "|" + m.Product + "|" + m.AcquisitionTime.Format("2006002.1504") + "|" + m.Collection
}

// LatestProductions - LAADS reprocesses granules and both copies can end up in the same
// download folder. Run through all file names, and return a map of file name->parsed meta
// for the newest production of each granule. Names that can't be parsed are logged and left
// out of the result.
func LatestProductions(fileNames []string, s Sensor, jobLog logger.ILogger) map[string]FileNameMeta {
	byGranule := map[string]string{}
	metas := map[string]FileNameMeta{}

	for _, file := range fileNames {
		meta, err := ParseFileName(file, s)
		if err != nil {
			jobLog.Infof("Failed to parse \"%v\": %v", file, err)
			continue
		}

		metas[file] = meta
		key := meta.GranuleKey()
		if existing, ok := byGranule[key]; ok {
			existingMeta := metas[existing]
			// Newer production wins, if they're the same, keep the one we saw first so we're stable
			if meta.ProductionTime <= existingMeta.ProductionTime {
				jobLog.Infof("Ignoring \"%v\", superseded by \"%v\"", file, existing)
				continue
			}
			jobLog.Infof("Ignoring \"%v\", superseded by \"%v\"", existing, file)
		}
		byGranule[key] = file
	}

	result := map[string]FileNameMeta{}
	for _, file := range byGranule {
		result[file] = metas[file]
	}
	return result
}
