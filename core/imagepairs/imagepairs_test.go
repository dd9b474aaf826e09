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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/seaicelab/leadkit/core/awsutil"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/fileaccess"
	"github.com/seaicelab/leadkit/core/logger"
	"github.com/seaicelab/leadkit/core/satfilename"
)

// Writes files of the given sizes (bytes) under a fresh temp dir, returns the dir
func makeTestFolder(files map[string]int) string {
	dir, err := os.MkdirTemp("", "leadkit-pairs")
	if err != nil {
		panic(err)
	}

	for name, size := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0777); err != nil {
			panic(err)
		}
		if err := os.WriteFile(fullPath, bytes.Repeat([]byte{1}, size), 0666); err != nil {
			panic(err)
		}
	}
	return dir
}

func printPairs(pairs []PairedImage) {
	for _, p := range pairs {
		fmt.Printf("%v|%v|%v|%v|%v\n", p.Date.Format(time.RFC3339), p.GeoFile, p.ImageFile, p.Folder, p.PairIndex)
	}
}

func Example_pairImagesMetaSingleFolder() {
	dir := makeTestFolder(map[string]int{
		"single/MOD03.A2021060.1005.061.2021061000000.hdf":    10,
		"single/MOD021KM.A2021060.1005.061.2021061000000.hdf": 20,
	})
	defer os.RemoveAll(dir)

	result, err := PairImagesMeta(&fileaccess.FSAccess{}, Source{Bucket: dir, SingleFolder: "single"}, MakeDefaultOptions(satfilename.MODIS), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v\n", err, result.FilesScanned, len(result.Warnings))
	printPairs(result.Pairs)

	// Output:
	// <nil>|2|0
	// 2021-03-01T10:05:00Z|MOD03.A2021060.1005.061.2021061000000.hdf|MOD021KM.A2021060.1005.061.2021061000000.hdf|single|0
}

// No bucket, absolute folders: read straight from that path on local disk
func Example_pairImagesMetaAbsoluteFolders() {
	dir := makeTestFolder(map[string]int{
		"single/MOD03.A2021060.1005.061.2021061000000.hdf":         10,
		"single/MOD021KM.A2021060.1005.061.2021061000000.hdf":      20,
		"main/2021061/MYD03.A2021061.0930.061.2021070000000.hdf":    10,
		"main/2021061/MYD021KM.A2021061.0930.061.2021070000000.hdf": 20,
	})
	defer os.RemoveAll(dir)

	for _, src := range []Source{
		{SingleFolder: filepath.Join(dir, "single")},
		{MainFolder: filepath.Join(dir, "main") + "/"},
	} {
		result, err := PairImagesMeta(&fileaccess.FSAccess{}, src, MakeDefaultOptions(satfilename.MODIS), &logger.NullLogger{})
		fmt.Printf("%v|%v|%v\n", err, result.FilesScanned, len(result.Warnings))
		for _, p := range result.Pairs {
			fmt.Printf("%v|%v|%v|%v\n", p.GeoFile, p.ImageFile, strings.Replace(p.Folder, dir, "<dir>", 1), p.PairIndex)
		}
	}

	// Output:
	// <nil>|2|0
	// MOD03.A2021060.1005.061.2021061000000.hdf|MOD021KM.A2021060.1005.061.2021061000000.hdf|<dir>/single|0
	// <nil>|2|0
	// MYD03.A2021061.0930.061.2021070000000.hdf|MYD021KM.A2021061.0930.061.2021070000000.hdf|<dir>/main/2021061|0
}

func Example_pairImagesMetaMainFolder() {
	dir := makeTestFolder(map[string]int{
		"main/2021060/MOD03.A2021060.1005.061.2021070000000.hdf":    10,
		"main/2021060/MOD021KM.A2021060.1005.061.2021070000000.hdf": 20,
		"main/2021060/MYD03.A2021060.1020.061.2021070000000.hdf":    10,
		"main/2021060/MYD021KM.A2021060.1020.061.2021070000000.hdf": 20,
		"main/2021060/MOD03.A2021060.1200.061.2021070000000.hdf":    10,
		"main/2021060/MOD021KM.A2021060.1200.061.2021070000000.hdf": 20,

		"main/2021061/MOD03.A2021061.0900.061.2021070000000.hdf":    10,
		"main/2021061/MOD021KM.A2021061.0900.061.2021070000000.hdf": 20,
		"main/2021061/MYD03.A2021061.0930.061.2021070000000.hdf":    10,

		"main/2021062/MYD03.A2021062.0000.061.2021070000000.hdf":        10,
		"main/2021062/MYD021KM.A2021062.0000.061.2021070000000.hdf":     20,
		"main/2021062/notes.txt":                                         5,
		"main/2021062/deeper/MOD03.A2021062.0100.061.2021070000000.hdf": 10,
		"main/stray.A2021062.0100.061.2021070000000.hdf":                10,
	})
	defer os.RemoveAll(dir)

	result, err := PairImagesMeta(&fileaccess.FSAccess{}, Source{Bucket: dir, MainFolder: "main"}, MakeDefaultOptions(satfilename.MODIS), &logger.NullLogger{})
	fmt.Printf("%v|%v|%v\n", err, result.FilesScanned, result.PairCount())
	printPairs(result.Pairs)
	for _, w := range result.Warnings {
		fmt.Printf("%v: %v\n", w.Code(), w)
	}
	fmt.Print(FormatPairs(result.Pairs))

	// Output:
	// <nil>|11|3
	// 2021-03-01T10:05:00Z|MOD03.A2021060.1005.061.2021070000000.hdf|MOD021KM.A2021060.1005.061.2021070000000.hdf|main/2021060|0
	// 2021-03-01T10:20:00Z|MYD03.A2021060.1020.061.2021070000000.hdf|MYD021KM.A2021060.1020.061.2021070000000.hdf|main/2021060|0
	// 2021-03-01T12:00:00Z|MOD03.A2021060.1200.061.2021070000000.hdf|MOD021KM.A2021060.1200.061.2021070000000.hdf|main/2021060|1
	// 2021-03-03T00:00:00Z|MYD03.A2021062.0000.061.2021070000000.hdf|MYD021KM.A2021062.0000.061.2021070000000.hdf|main/2021062|2
	// odd-file-count: folder main/2021061: odd number (3) of .hdf files found in folder, should be one geo file per imagery file
	// Pair 0
	// ------
	// 2021-03-01 10:05:00
	// 2021-03-01 10:20:00
	//
	// Pair 1
	// ------
	// 2021-03-01 12:00:00
	//
	// Pair 2
	// ------
	// 2021-03-03 00:00:00
}

func Example_pairImagesMetaWarnings() {
	dir := makeTestFolder(map[string]int{
		"single/MOD03.A2021060.1005.061.X.hdf":    30,
		"single/MOD021KM.A2021060.1010.061.X.hdf": 60,
		"single/MYD03.A2021060.1100.061.X.hdf":    2,
		"single/MYD021KM.A2021060.1100.061.X.hdf": 60,
		"single/MOD03.A2021xx0.1200.061.X.hdf":    30,
		"single/MOD021KM.A2021060.1200.061.X.hdf": 60,
	})
	defer os.RemoveAll(dir)

	minGeoMB := 0.00001
	opts := MakeDefaultOptions(satfilename.MODIS)
	opts.MinGeoFileSizeMB = &minGeoMB

	log := &logger.MemLogger{}
	result, err := PairImagesMeta(&fileaccess.FSAccess{}, Source{Bucket: dir, SingleFolder: "single/"}, opts, log)
	fmt.Printf("%v|%v|%v|%v\n", err, result.FilesScanned, len(result.Pairs), len(result.Warnings))
	for _, line := range log.Lines {
		fmt.Println(line)
	}

	// Output:
	// <nil>|6|0|6
	// INFO: Search in single folder: single/
	// INFO: ===============
	// POSSIBLE ERROR:
	// ===============
	// INFO: undersized-file: folder single, file MYD03.A2021060.1100.061.X.hdf: file is only 0.0 MB (minimum 0.0 MB), likely corrupted
	// INFO: no-image-match: folder single, file MOD03.A2021060.1005.061.X.hdf: date match could not be found for geo file in image list
	// INFO: malformed-file-name: folder single, file MOD03.A2021xx0.1200.061.X.hdf: failed to read day of year from "xx0" in file name: MOD03.A2021xx0.1200.061.X.hdf
	// INFO: unmatched-image: folder single, file MOD021KM.A2021060.1010.061.X.hdf: no geo file found for image file
	// INFO: unmatched-image: folder single, file MOD021KM.A2021060.1200.061.X.hdf: no geo file found for image file
	// INFO: unmatched-image: folder single, file MYD021KM.A2021060.1100.061.X.hdf: no geo file found for image file
	// INFO: Scanned 6 files, found 0 acquisitions in 0 pairs, 6 warnings
}

func Example_pairImagesMetaS3() {
	var mockS3 awsutil.MockS3Client
	defer mockS3.FinishTest()

	mockS3.ExpListObjectsV2Input = []s3.ListObjectsV2Input{
		{Bucket: aws.String("laads-archive"), Prefix: aws.String("MOD/")},
	}
	mockS3.QueuedListObjectsV2Output = []*s3.ListObjectsV2Output{
		{
			IsTruncated: aws.Bool(false),
			Contents: []*s3.Object{
				{Key: aws.String("MOD/2020001/MOD021KM.A2020001.1200.061.2020002000000.hdf"), Size: aws.Int64(61000000)},
				{Key: aws.String("MOD/2020001/MOD03.A2020001.1200.061.2020002000000.hdf"), Size: aws.Int64(31000000)},
				{Key: aws.String("MOD/2020002/MOD021KM.A2020002.0005.061.2020003000000.hdf"), Size: aws.Int64(12000000)},
				{Key: aws.String("MOD/2020002/MOD03.A2020002.0005.061.2020003000000.hdf"), Size: aws.Int64(30000000)},
			},
		},
	}

	minGeoMB := 28.0
	minImageMB := 55.0
	opts := MakeDefaultOptions(satfilename.MODIS)
	opts.MinGeoFileSizeMB = &minGeoMB
	opts.MinImageFileSizeMB = &minImageMB

	result, err := PairImagesMeta(fileaccess.MakeS3Access(&mockS3), Source{Bucket: "laads-archive", MainFolder: "MOD"}, opts, &logger.NullLogger{})
	fmt.Printf("%v|%v\n", err, result.FilesScanned)
	printPairs(result.Pairs)
	for _, w := range result.Warnings {
		fmt.Printf("%v: %v\n", w.Code(), w)
	}

	// Output:
	// <nil>|4
	// 2020-01-01T12:00:00Z|MOD03.A2020001.1200.061.2020002000000.hdf|MOD021KM.A2020001.1200.061.2020002000000.hdf|MOD/2020001|0
	// undersized-file: folder MOD/2020002, file MOD021KM.A2020002.0005.061.2020003000000.hdf: file is only 12.0 MB (minimum 55.0 MB), likely corrupted
	// no-image-match: folder MOD/2020002, file MOD03.A2020002.0005.061.2020003000000.hdf: date match could not be found for geo file in image list
}

func Example_pair() {
	base := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	acqs := []Acquisition{}
	for _, mins := range []int{30, 0, 15, 20, 45, 300} {
		acqs = append(acqs, Acquisition{Date: base.Add(time.Duration(mins) * time.Minute), GeoFile: fmt.Sprintf("geo%v", mins)})
	}

	for _, p := range Pair(acqs, DefaultMaxDiffMinutes) {
		fmt.Printf("%v %v %v\n", p.Date.Format("15:04"), p.GeoFile, p.PairIndex)
	}
	fmt.Println(len(Pair([]Acquisition{}, 20)))
	fmt.Println(acqs[0].GeoFile)

	// Output:
	// 00:00 geo0 0
	// 00:15 geo15 0
	// 00:20 geo20 0
	// 00:30 geo30 1
	// 00:45 geo45 1
	// 05:00 geo300 2
	// 0
	// geo30
}

// Simultaneous acquisitions come out ordered by geo file, then image file, then folder,
// whatever order they were scanned in
func Example_pairTieBreak() {
	at := time.Date(2021, 3, 1, 10, 5, 0, 0, time.UTC)
	acqs := []Acquisition{
		{Date: at, GeoFile: "MYD03.A2021060.1005.061.hdf", ImageFile: "MYD021KM.A2021060.1005.061.hdf", Folder: "main/2021060"},
		{Date: at, GeoFile: "MOD03.A2021060.1005.061.hdf", ImageFile: "MOD021KM.A2021060.1005.061.hdf", Folder: "main/b"},
		{Date: at, GeoFile: "MOD03.A2021060.1005.061.hdf", ImageFile: "MOD021KM.A2021060.1005.061.hdf", Folder: "main/a"},
		{Date: at.Add(-time.Minute), GeoFile: "VNP03MOD.A2021060.1004.002.nc", ImageFile: "VNP02MOD.A2021060.1004.002.nc", Folder: "main/2021060"},
	}

	for _, p := range Pair(acqs, 0) {
		fmt.Printf("%v %v %v %v\n", p.Date.Format("15:04"), p.GeoFile, p.Folder, p.PairIndex)
	}

	// Output:
	// 10:04 VNP03MOD.A2021060.1004.002.nc main/2021060 0
	// 10:05 MOD03.A2021060.1005.061.hdf main/a 1
	// 10:05 MOD03.A2021060.1005.061.hdf main/b 1
	// 10:05 MYD03.A2021060.1005.061.hdf main/2021060 1
}

func Example_writeCSV() {
	pairs := []PairedImage{
		{Acquisition: Acquisition{Date: time.Date(2021, 3, 1, 10, 5, 0, 0, time.UTC), GeoFile: "MOD03.A2021060.1005.061.hdf", ImageFile: "MOD021KM.A2021060.1005.061.hdf", Folder: "main/2021060"}, PairIndex: 0},
		{Acquisition: Acquisition{Date: time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC), GeoFile: "MOD03.A2021060.1200.061.hdf", ImageFile: "MOD021KM.A2021060.1200.061.hdf", Folder: "main/2021060"}, PairIndex: 1},
	}

	var sb strings.Builder
	fmt.Println(WriteCSV(&sb, pairs))
	fmt.Print(sb.String())

	// Output:
	// <nil>
	// date,geo_file,image_file,folder,pair_index
	// 2021-03-01T10:05:00Z,MOD03.A2021060.1005.061.hdf,MOD021KM.A2021060.1005.061.hdf,main/2021060,0
	// 2021-03-01T12:00:00Z,MOD03.A2021060.1200.061.hdf,MOD021KM.A2021060.1200.061.hdf,main/2021060,1
}

func TestPairImagesMetaBadInput(t *testing.T) {
	fs := &fileaccess.FSAccess{}
	log := &logger.NullLogger{}

	badSensor := MakeDefaultOptions(satfilename.MODIS)
	badSensor.Sensor = satfilename.Sensor{Name: "AVHRR"}

	negativeDiff := MakeDefaultOptions(satfilename.MODIS)
	negativeDiff.MaxDiffMinutes = -1

	negativeSize := MakeDefaultOptions(satfilename.VIIRS)
	minSize := -5.0
	negativeSize.MinImageFileSizeMB = &minSize

	noLabels := MakeDefaultOptions(satfilename.VIIRS)
	noLabels.SatelliteLabels = nil

	cases := []struct {
		src  Source
		opts Options
	}{
		{Source{Bucket: ".", SingleFolder: "x"}, badSensor},
		{Source{Bucket: ".", SingleFolder: "x"}, negativeDiff},
		{Source{Bucket: ".", SingleFolder: "x"}, negativeSize},
		{Source{Bucket: ".", SingleFolder: "x"}, noLabels},
		{Source{Bucket: ".", MainFolder: "x", SingleFolder: "y"}, MakeDefaultOptions(satfilename.MODIS)},
		{Source{Bucket: "."}, MakeDefaultOptions(satfilename.MODIS)},
	}

	for c, tc := range cases {
		_, err := PairImagesMeta(fs, tc.src, tc.opts, log)
		code, ok := errorwithcode.CodeOf(err)
		if !ok || code != errorwithcode.CodeBadInput {
			t.Errorf("case %v: expected bad input error, got: %v", c, err)
		}
	}
}

func TestPairImagesMetaLatestProductionOnly(t *testing.T) {
	dir := makeTestFolder(map[string]int{
		"viirs/VNP03MOD.A2021060.1006.002.2021061000000.nc": 10,
		"viirs/VNP02MOD.A2021060.1006.002.2021061000000.nc": 20,
		"viirs/VNP02MOD.A2021060.1006.002.2021200000000.nc": 20,

		"mixed/VNP03MOD.A2021060.1006.002.2021061000000.nc": 10,
		"mixed/VNP02MOD.A2021060.1006.002.2021061000000.nc": 20,
		"mixed/VNP03MOD.A2021X60.1100.002.2021061000000.nc": 10,
		"mixed/VNP02MOD.A2021060.1100.002.2021061000000.nc": 20,
	})
	defer os.RemoveAll(dir)

	src := Source{Bucket: dir, SingleFolder: "viirs"}
	opts := MakeDefaultOptions(satfilename.VIIRS)

	result, err := PairImagesMeta(&fileaccess.FSAccess{}, src, opts, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pairs) != 0 || len(result.Warnings) != 1 || result.Warnings[0].Code() != errorwithcode.CodeOddFileCount {
		t.Errorf("expected odd file count warning only, got: %v, %v", result.Pairs, result.Warnings)
	}

	opts.LatestProductionOnly = true
	result, err = PairImagesMeta(&fileaccess.FSAccess{}, src, opts, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Pairs) != 1 || result.Pairs[0].ImageFile != "VNP02MOD.A2021060.1006.002.2021200000000.nc" {
		t.Errorf("expected newest image production to be paired, got: %v", result.Pairs)
	}

	// A malformed name is reported the same way whether or not older productions are dropped
	mixed := Source{Bucket: dir, SingleFolder: "mixed"}
	for _, latestOnly := range []bool{false, true} {
		opts.LatestProductionOnly = latestOnly
		result, err = PairImagesMeta(&fileaccess.FSAccess{}, mixed, opts, &logger.NullLogger{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		codes := []errorwithcode.Code{}
		for _, w := range result.Warnings {
			codes = append(codes, w.Code())
		}
		if len(codes) != 2 || codes[0] != errorwithcode.CodeMalformedFileName || codes[1] != errorwithcode.CodeUnmatchedImage {
			t.Errorf("latest only %v: unexpected warnings: %v", latestOnly, result.Warnings)
		}
		if len(result.Pairs) != 1 || result.Pairs[0].GeoFile != "VNP03MOD.A2021060.1006.002.2021061000000.nc" {
			t.Errorf("latest only %v: expected the good pair, got: %v", latestOnly, result.Pairs)
		}
	}
}

func TestPairImagesMetaMissingFolder(t *testing.T) {
	dir := makeTestFolder(map[string]int{
		"empty/notes.txt": 5,
	})
	defer os.RemoveAll(dir)

	opts := MakeDefaultOptions(satfilename.MODIS)
	for _, src := range []Source{
		{Bucket: dir, MainFolder: "nowhere"},
		{Bucket: dir, SingleFolder: "nowhere"},
		{Bucket: filepath.Join(dir, "no-root"), MainFolder: "."},
		{SingleFolder: filepath.Join(dir, "nowhere")},
	} {
		_, err := PairImagesMeta(&fileaccess.FSAccess{}, src, opts, &logger.NullLogger{})
		if code, ok := errorwithcode.CodeOf(err); !ok || code != errorwithcode.CodeFileAccess {
			t.Errorf("%+v: expected file access error, got: %v", src, err)
		}
	}

	// Existing folder with none of our files is fine, just empty
	result, err := PairImagesMeta(&fileaccess.FSAccess{}, Source{Bucket: dir, SingleFolder: "empty"}, opts, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pairs) != 0 || result.FilesScanned != 0 || result.PairCount() != 0 {
		t.Errorf("expected empty result, got: %+v", result)
	}
	if FormatPairs(result.Pairs) != "" {
		t.Errorf("expected nothing printed for no pairs")
	}
}
