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

package imagepairs

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/fileaccess"
	"github.com/seaicelab/leadkit/core/logger"
	"github.com/seaicelab/leadkit/core/satfilename"
	"github.com/seaicelab/leadkit/core/utils"
)

const bytesPerMB = 1000 * 1000

const possibleErrorBanner = "POSSIBLE ERROR:"

// Acquisition - one geolocation file and the imagery file taken at the same time
type Acquisition struct {
	Date      time.Time `json:"date"`
	GeoFile   string    `json:"geoFile"`
	ImageFile string    `json:"imageFile"`
	Folder    string    `json:"folder"`
}

type scanner struct {
	opts     Options
	jobLog   logger.ILogger
	warnings []errorwithcode.CodedError
	scanned  int
}

func (s *scanner) warn(w errorwithcode.CodedError) {
	s.jobLog.Infof("%v: %v", w.Code(), w.Error())
	s.warnings = append(s.warnings, w)
}

// Lists what's to be scanned, returning file name->size in bytes, grouped by folder
func listFolders(fs fileaccess.FileAccess, src Source, ext string) (map[string]map[string]int64, error) {
	mainMode := len(src.MainFolder) > 0
	prefix := src.folderPrefix(src.SingleFolder)
	if mainMode {
		prefix = src.folderPrefix(src.MainFolder)
	}

	listing, err := fs.ListObjectsWithSize(src.Bucket, prefix)
	if err != nil {
		return nil, errorwithcode.MakeFileAccessError(path.Join(src.Bucket, prefix), errors.Wrap(err, "failed to list files"))
	}

	if len(listing) <= 0 {
		if err := checkFolderExists(fs, src.Bucket, prefix); err != nil {
			return nil, err
		}
	}

	folders := map[string]map[string]int64{}
	if !mainMode {
		// Even an empty single folder is still scanned
		folders[strings.TrimSuffix(prefix, "/")] = map[string]int64{}
	}

	for _, item := range listing {
		rel := strings.TrimPrefix(item.Path, prefix)
		parts := strings.Split(rel, "/")

		var folder, name string
		if mainMode {
			// Only files directly inside a sub-folder of main folder
			if len(parts) != 2 {
				continue
			}
			folder = prefix + parts[0]
			name = parts[1]
		} else {
			if len(parts) != 1 {
				continue
			}
			folder = strings.TrimSuffix(prefix, "/")
			name = parts[0]
		}

		if mainMode {
			if _, ok := folders[folder]; !ok {
				folders[folder] = map[string]int64{}
			}
		}

		// Sub-folders without any of our files still count as scanned, they just hold nothing
		if strings.HasSuffix(name, ext) {
			folders[folder][name] = item.SizeBytes
		}
	}

	return folders, nil
}

// A local listing is empty both for an empty folder and a missing one, so tell them apart.
// S3 has no real folders: nothing listed under the prefix means it isn't there
func checkFolderExists(fs fileaccess.FileAccess, bucket string, prefix string) error {
	where := path.Join(bucket, prefix)
	if local, ok := fs.(*fileaccess.FSAccess); ok {
		exists, err := local.ObjectExists(bucket, prefix)
		if err != nil {
			return errorwithcode.MakeFileAccessError(where, err)
		}
		if exists {
			return nil
		}
	}
	return errorwithcode.MakeFileAccessError(where, fmt.Errorf("folder not found"))
}

// scanFolder - returns the acquisitions found in one folder, reporting anything odd as warnings
func (s *scanner) scanFolder(folder string, files map[string]int64) []Acquisition {
	fileNames := utils.GetSortedMapKeys(files)

	if s.opts.LatestProductionOnly {
		latest := satfilename.LatestProductions(fileNames, s.opts.Sensor, s.jobLog)
		kept := []string{}
		for _, name := range fileNames {
			_, isLatest := latest[name]
			// Names without a readable date stay in, so they're reported as malformed below
			if _, err := satfilename.ParseFileName(name, s.opts.Sensor); isLatest || err != nil {
				kept = append(kept, name)
			}
		}
		fileNames = kept
	}

	s.scanned += len(fileNames)

	if len(fileNames)%2 != 0 {
		s.warn(errorwithcode.MakeOddFileCountError(folder, s.opts.Sensor.Extension, len(fileNames)))
		return []Acquisition{}
	}

	type imageKey struct {
		tag  string
		date time.Time
	}

	geoFiles := []string{}
	geoImageTag := map[string]string{}
	imagesByKey := map[imageKey][]string{}
	imageFiles := []string{}

	for _, name := range fileNames {
		sizeMB := float64(files[name]) / bytesPerMB

		for _, label := range s.opts.SatelliteLabels {
			if strings.Contains(name, label.Geo) {
				if s.opts.MinGeoFileSizeMB != nil && sizeMB < *s.opts.MinGeoFileSizeMB {
					s.warnUndersized(folder, name, sizeMB, *s.opts.MinGeoFileSizeMB)
					break
				}
				geoFiles = append(geoFiles, name)
				geoImageTag[name] = label.Image
				break
			}

			if strings.Contains(name, label.Image) {
				if s.opts.MinImageFileSizeMB != nil && sizeMB < *s.opts.MinImageFileSizeMB {
					s.warnUndersized(folder, name, sizeMB, *s.opts.MinImageFileSizeMB)
					break
				}

				date, err := s.opts.Sensor.AcquisitionTime(name)
				if err != nil {
					s.warn(errorwithcode.MakeMalformedFileNameError(folder, name, err))
					break
				}

				key := imageKey{label.Image, date}
				imagesByKey[key] = append(imagesByKey[key], name)
				imageFiles = append(imageFiles, name)
				break
			}
		}
	}

	result := []Acquisition{}
	used := map[string]bool{}

	for _, geoFile := range geoFiles {
		date, err := s.opts.Sensor.AcquisitionTime(geoFile)
		if err != nil {
			s.warn(errorwithcode.MakeMalformedFileNameError(folder, geoFile, err))
			continue
		}

		key := imageKey{geoImageTag[geoFile], date}
		candidates := imagesByKey[key]
		if len(candidates) <= 0 {
			s.warn(errorwithcode.MakeNoImageMatchError(folder, geoFile))
			continue
		}

		imageFile := candidates[0]
		imagesByKey[key] = candidates[1:]
		used[imageFile] = true

		result = append(result, Acquisition{Date: date, GeoFile: geoFile, ImageFile: imageFile, Folder: folder})
	}

	for _, imageFile := range imageFiles {
		if !used[imageFile] {
			s.warn(errorwithcode.MakeUnmatchedImageError(folder, imageFile))
		}
	}

	return result
}

func (s *scanner) warnUndersized(folder string, file string, sizeMB float64, minSizeMB float64) {
	banner := strings.Repeat("=", len(possibleErrorBanner))
	s.jobLog.Infof("%v\n%v\n%v", banner, possibleErrorBanner, banner)
	s.warn(errorwithcode.MakeUndersizedFileError(folder, file, sizeMB, minSizeMB))
}

// ScanAcquisitions - list the source and build the acquisition list, sorted by date, geo
// file, image file then folder. Warnings are logged and returned alongside
func ScanAcquisitions(fs fileaccess.FileAccess, src Source, opts Options, jobLog logger.ILogger) ([]Acquisition, []errorwithcode.CodedError, int, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, 0, err
	}
	if err := src.validate(); err != nil {
		return nil, nil, 0, err
	}

	if len(src.MainFolder) > 0 {
		jobLog.Infof("Search within main folder: %v", src.MainFolder)
	} else {
		jobLog.Infof("Search in single folder: %v", src.SingleFolder)
	}

	folders, err := listFolders(fs, src, opts.Sensor.Extension)
	if err != nil {
		return nil, nil, 0, err
	}

	s := &scanner{opts: opts, jobLog: jobLog, warnings: []errorwithcode.CodedError{}}
	acqs := []Acquisition{}

	for _, folder := range utils.GetSortedMapKeys(folders) {
		acqs = append(acqs, s.scanFolder(folder, folders[folder])...)
	}

	sortAcquisitions(acqs)
	return acqs, s.warnings, s.scanned, nil
}

func sortAcquisitions(acqs []Acquisition) {
	sort.SliceStable(acqs, func(i, j int) bool {
		a, b := acqs[i], acqs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.GeoFile != b.GeoFile {
			return a.GeoFile < b.GeoFile
		}
		if a.ImageFile != b.ImageFile {
			return a.ImageFile < b.ImageFile
		}
		return a.Folder < b.Folder
	})
}
