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

// Pairs MODIS/VIIRS geolocation files with their imagery files, then groups the
// resulting acquisitions into passes close together in time. Everything is done
// from file names and listed sizes, no file is opened.
package imagepairs

import (
	"fmt"
	"path"
	"strings"

	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/satfilename"
)

const DefaultMaxDiffMinutes = 20

type Options struct {
	Sensor          satfilename.Sensor
	SatelliteLabels []satfilename.SatelliteLabels

	// Files smaller than these are assumed to be broken downloads. nil = don't check
	MinGeoFileSizeMB   *float64
	MinImageFileSizeMB *float64

	// Acquisitions within this many minutes of a group's first one join the group
	MaxDiffMinutes int

	// Drop all but the newest production of any reprocessed granule before pairing
	LatestProductionOnly bool
}

// MakeDefaultOptions - options as LAADS MODIS/VIIRS downloads usually need, no size checks
func MakeDefaultOptions(sensor satfilename.Sensor) Options {
	return Options{
		Sensor:          sensor,
		SatelliteLabels: satfilename.DefaultLabels(sensor),
		MaxDiffMinutes:  DefaultMaxDiffMinutes,
	}
}

func (o Options) validate() error {
	if _, err := satfilename.SensorByName(o.Sensor.Name); err != nil {
		return errorwithcode.MakeBadInputError(err)
	}
	if len(o.SatelliteLabels) <= 0 {
		return errorwithcode.MakeBadInputError(fmt.Errorf("no satellite labels specified"))
	}
	for _, label := range o.SatelliteLabels {
		if len(label.Geo) <= 0 || len(label.Image) <= 0 {
			return errorwithcode.MakeBadInputError(fmt.Errorf("satellite labels must not be empty, got: %v", label))
		}
	}
	if o.MinGeoFileSizeMB != nil && *o.MinGeoFileSizeMB < 0 {
		return errorwithcode.MakeBadInputError(fmt.Errorf("minimum geo file size must not be negative, got: %v", *o.MinGeoFileSizeMB))
	}
	if o.MinImageFileSizeMB != nil && *o.MinImageFileSizeMB < 0 {
		return errorwithcode.MakeBadInputError(fmt.Errorf("minimum image file size must not be negative, got: %v", *o.MinImageFileSizeMB))
	}
	if o.MaxDiffMinutes < 0 {
		return errorwithcode.MakeBadInputError(fmt.Errorf("max diff minutes must not be negative, got: %v", o.MaxDiffMinutes))
	}
	return nil
}

// Source - where to look. Set exactly one of MainFolder (one sub-folder per date/pass, only
// direct sub-folders are scanned) or SingleFolder. Bucket is an S3 bucket, or the root
// directory when reading local files. Use "." to scan the bucket root itself
type Source struct {
	Bucket       string
	MainFolder   string
	SingleFolder string
}

func (s Source) validate() error {
	if (len(s.MainFolder) > 0) == (len(s.SingleFolder) > 0) {
		return errorwithcode.MakeBadInputError(fmt.Errorf("exactly one of main folder or single folder must be specified"))
	}
	return nil
}

// Turns a folder into an S3-style listing prefix: "" for the bucket root, otherwise ending in /.
// Folders are relative to the bucket, except on local disk with no bucket, where an absolute
// folder stays absolute
func (s Source) folderPrefix(folder string) string {
	if len(s.Bucket) <= 0 && path.IsAbs(folder) {
		cleaned := path.Clean(folder)
		if cleaned == "/" {
			return "/"
		}
		return cleaned + "/"
	}

	cleaned := path.Clean(strings.TrimPrefix(folder, "/"))
	if cleaned == "." || cleaned == "/" {
		return ""
	}
	return cleaned + "/"
}
