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
	"bytes"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/seaicelab/leadkit/core/awsutil"
	"github.com/seaicelab/leadkit/core/config"
	"github.com/seaicelab/leadkit/core/errorreport"
	"github.com/seaicelab/leadkit/core/fileaccess"
	"github.com/seaicelab/leadkit/core/imagepairs"
	"github.com/seaicelab/leadkit/core/logger"
	"github.com/seaicelab/leadkit/core/scanmetrics"
)

const toolName = "pair-images"

var release = "dev"

var mainFolder string
var singleFolder string
var bucket string
var outBucket string
var outCSV string
var outJSON string
var quiet bool

func main() {
	t0 := time.Now()

	flag.StringVar(&mainFolder, "main-folder", "", "Folder whose subfolders (eg one per day) hold the satellite files")
	flag.StringVar(&singleFolder, "single-folder", "", "Folder directly holding the satellite files")
	flag.StringVar(&bucket, "bucket", "", "S3 bucket to read from. Empty = local file system")
	flag.StringVar(&outBucket, "out-bucket", "", "S3 bucket to write outputs to. Empty = local file system")
	flag.StringVar(&outCSV, "out", "", "Path of CSV file to write pairs to")
	flag.StringVar(&outJSON, "out-json", "", "Path of JSON file to write pairs to")
	flag.BoolVar(&quiet, "quiet", false, "Don't print the pairs")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Results go to stdout, so logs go to stderr
	iLog := logger.NewStdErrLogger(level)

	errorreport.Init(cfg.SentryEndpoint, cfg.EnvironmentName, release, iLog)
	defer errorreport.Flush()

	opts, err := cfg.PairingOptions()
	if err != nil {
		fatalError(err)
	}

	var inFS fileaccess.FileAccess = &fileaccess.FSAccess{}
	var outFS fileaccess.FileAccess = &fileaccess.FSAccess{}
	if len(bucket) > 0 || len(outBucket) > 0 {
		s3FS, err := makeS3Access(cfg.AWSRegion)
		if err != nil {
			fatalError(err)
		}
		if len(bucket) > 0 {
			inFS = s3FS
		}
		if len(outBucket) > 0 {
			outFS = s3FS
		}
	}

	src := imagepairs.Source{Bucket: bucket, MainFolder: mainFolder, SingleFolder: singleFolder}
	result, err := imagepairs.PairImagesMeta(inFS, src, opts, iLog)
	if err != nil {
		fatalError(err)
	}

	if !quiet {
		fmt.Print(imagepairs.FormatPairs(result.Pairs))
	}

	if len(outCSV) > 0 {
		var buf bytes.Buffer
		if err := imagepairs.WriteCSV(&buf, result.Pairs); err != nil {
			fatalError(err)
		}
		if err := outFS.WriteObject(outBucket, outCSV, buf.Bytes()); err != nil {
			fatalError(err)
		}
		iLog.Infof("Wrote %v pairs to %v", result.PairCount(), outCSV)
	}

	if len(outJSON) > 0 {
		if err := outFS.WriteJSON(outBucket, outJSON, result.Pairs); err != nil {
			fatalError(err)
		}
		iLog.Infof("Wrote %v pairs to %v", result.PairCount(), outJSON)
	}

	if len(result.Warnings) > 0 {
		errorreport.ReportMessage(fmt.Sprintf("Pairing %v finished with %v warnings", src.MainFolder+src.SingleFolder, len(result.Warnings)), toolName)
	}

	if len(cfg.MetricsTextfile) > 0 {
		metrics := scanmetrics.New(opts.Sensor.Name)
		metrics.Record(result, time.Since(t0), time.Now())
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			iLog.Errorf("%v", err)
		}
	}

	iLog.Infof("Finished in %v", time.Since(t0).Round(time.Millisecond))
}

func makeS3Access(region string) (fileaccess.FileAccess, error) {
	sess, err := awsutil.GetSessionWithRegion(region)
	if err != nil {
		return nil, fmt.Errorf("Failed to create AWS session. Error: %v", err)
	}

	s3svc, err := awsutil.GetS3(sess)
	if err != nil {
		return nil, fmt.Errorf("Failed to create AWS S3 service. Error: %v", err)
	}

	s3FS := fileaccess.MakeS3Access(s3svc)
	return s3FS, nil
}

func fatalError(err error) {
	errorreport.Report(err, toolName)
	errorreport.Flush()
	log.Fatalf("%v", err)
}
