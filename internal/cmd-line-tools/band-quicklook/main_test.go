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

package main

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/seaicelab/leadkit/core/config"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/swath"
)

func Example_localCopy() {
	localPath, tempDir, err := localCopy("./granules/MOD021KM.A2021060.1005.061.hdf", "us-east-1")
	fmt.Printf("%v|%v|%v\n", localPath, len(tempDir), err)

	_, _, err = localCopy("s3://", "us-east-1")
	fmt.Printf("%v\n", err != nil)

	// Output:
	// ./granules/MOD021KM.A2021060.1005.061.hdf|0|<nil>
	// true
}

func TestLoadersMissingFile(t *testing.T) {
	tmp := t.TempDir()

	imageFile = filepath.Join(tmp, "MOD021KM.A2021060.1005.061.hdf")
	geoFile = filepath.Join(tmp, "MOD03.A2021060.1005.061.hdf")
	datasetName = "EV_1KM_RefSB"
	bandName = "8"
	attrName = "band_names"

	cfg := config.LeadkitConfig{AWSRegion: "us-east-1"}

	_, bandErr := loadBand(cfg, swath.Reflectance)
	_, geoErr := loadGeo(cfg)
	_, attrErr := loadAttr(cfg)

	for c, err := range []error{bandErr, geoErr, attrErr} {
		if code, ok := errorwithcode.CodeOf(err); !ok || code != errorwithcode.CodeFileAccess {
			t.Errorf("loader %v: expected file access error, got: %v", c, err)
		}
	}
}
