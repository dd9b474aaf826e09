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
	"time"

	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/fileaccess"
	"github.com/seaicelab/leadkit/core/logger"
)

// PairedImage - an acquisition and the index of the time group it belongs to
type PairedImage struct {
	Acquisition
	PairIndex int `json:"pairIndex"`
}

// Pair - groups acquisitions by time. The earliest acquisition not yet in a group opens a new
// one, and every later acquisition within maxDiffMinutes of it joins. Group indices start at
// 0 and go up by one per group. Output is in date order; acqs is not modified
func Pair(acqs []Acquisition, maxDiffMinutes int) []PairedImage {
	sorted := make([]Acquisition, len(acqs))
	copy(sorted, acqs)
	sortAcquisitions(sorted)

	if maxDiffMinutes < 0 {
		maxDiffMinutes = 0
	}
	maxDiff := time.Duration(maxDiffMinutes) * time.Minute

	result := make([]PairedImage, 0, len(sorted))
	pairIndex := 0
	for c := 0; c < len(sorted); pairIndex++ {
		first := sorted[c].Date
		for c < len(sorted) && sorted[c].Date.Sub(first) <= maxDiff {
			result = append(result, PairedImage{Acquisition: sorted[c], PairIndex: pairIndex})
			c++
		}
	}

	return result
}

// Result - output of a pairing run
type Result struct {
	Pairs        []PairedImage
	Warnings     []errorwithcode.CodedError
	FilesScanned int
}

// PairCount - number of groups in the result
func (r Result) PairCount() int {
	if len(r.Pairs) <= 0 {
		return 0
	}
	return r.Pairs[len(r.Pairs)-1].PairIndex + 1
}

// PairImagesMeta - scan the source for geo/image files, match them and group them by time.
// Problems with individual files or folders come back as warnings. Errors are only returned
// for bad options or if the source can't be listed at all
func PairImagesMeta(fs fileaccess.FileAccess, src Source, opts Options, jobLog logger.ILogger) (Result, error) {
	acqs, warnings, scanned, err := ScanAcquisitions(fs, src, opts, jobLog)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Pairs:        Pair(acqs, opts.MaxDiffMinutes),
		Warnings:     warnings,
		FilesScanned: scanned,
	}

	jobLog.Infof("Scanned %v files, found %v acquisitions in %v pairs, %v warnings", scanned, len(result.Pairs), result.PairCount(), len(warnings))
	return result, nil
}
