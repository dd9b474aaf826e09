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
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/seaicelab/leadkit/core/awsutil"
	"github.com/seaicelab/leadkit/core/cartomap"
	"github.com/seaicelab/leadkit/core/config"
	"github.com/seaicelab/leadkit/core/errorreport"
	"github.com/seaicelab/leadkit/core/fileaccess"
	"github.com/seaicelab/leadkit/core/imageedit"
	"github.com/seaicelab/leadkit/core/leadgeom"
	"github.com/seaicelab/leadkit/core/logger"
	"github.com/seaicelab/leadkit/core/satfilename"
	"github.com/seaicelab/leadkit/core/swath"
	"gonum.org/v1/plot/vg"
)

const toolName = "band-quicklook"

var release = "dev"

var imageFile string
var datasetName string
var bandName string
var kind string
var width int
var loPct float64
var hiPct float64
var outPath string
var geoFile string
var latVar string
var lonVar string
var leadPath string
var maxMarkKm float64
var mapPath string
var attrName string

func main() {
	flag.StringVar(&imageFile, "file", "", "Satellite imagery file (eg MOD021KM), local path or s3:// url")
	flag.StringVar(&datasetName, "dataset", "EV_1KM_RefSB", "Dataset holding the band")
	flag.StringVar(&bandName, "band", "", "Band name, as listed in the dataset's band_names attribute")
	flag.StringVar(&kind, "kind", swath.Reflectance.String(), "Calibration: reflectance or radiance")
	flag.IntVar(&width, "width", 0, "Width to scale the quicklook to. 0 = full resolution")
	flag.Float64Var(&loPct, "lo", 2, "Percentile drawn as black")
	flag.Float64Var(&hiPct, "hi", 98, "Percentile drawn as white")
	flag.StringVar(&outPath, "out", "", "Quicklook image to write (.png or .jpg)")
	flag.StringVar(&geoFile, "geo", "", "Geolocation file matching -file, needed for -lead and -map. Local path or s3:// url")
	flag.StringVar(&latVar, "lat-var", swath.DefaultGeoVars.Lat, "Latitude dataset in the geolocation file")
	flag.StringVar(&lonVar, "lon-var", swath.DefaultGeoVars.Lon, "Longitude dataset in the geolocation file")
	flag.StringVar(&leadPath, "lead", "", "CSV of lead points to mark on the quicklook and map")
	flag.Float64Var(&maxMarkKm, "max-mark-km", 5, "Lead points further than this from any pixel aren't marked")
	flag.StringVar(&mapPath, "map", "", "Optional map of the swath footprint")
	flag.StringVar(&attrName, "attr", "", "Print this attribute of -dataset (eg band_names) and exit")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	if len(attrName) > 0 {
		printAttr(cfg)
		return
	}

	checkNotEmpty := []string{imageFile, bandName, outPath}
	checkNotEmptyName := []string{"file", "band", "out"}
	for c, s := range checkNotEmpty {
		if len(s) <= 0 {
			log.Fatalf("Parameter: %v was empty", checkNotEmptyName[c])
		}
	}
	if (len(leadPath) > 0 || len(mapPath) > 0) && len(geoFile) <= 0 {
		log.Fatalf("Parameter: geo is needed for lead or map")
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("%v", err)
	}

	iLog := logger.NewStdOutLogger(level)

	errorreport.Init(cfg.SentryEndpoint, cfg.EnvironmentName, release, iLog)
	defer errorreport.Flush()

	calibration, err := swath.CalibrationFromString(kind)
	if err != nil {
		fatalError(err)
	}

	band, err := loadBand(cfg, calibration)
	if err != nil {
		fatalError(err)
	}

	stats := band.Stats()
	iLog.Infof("Band %v %v: %vx%v, %v valid pixels, mean %.4f, std dev %.4f", band.Name, band.Kind, band.Cols, band.Rows, stats.ValidCount, stats.Mean, stats.StdDev)

	lo, hi, err := band.Percentiles(loPct, hiPct)
	if err != nil {
		fatalError(err)
	}

	var img image.Image = band.Image(lo, hi)

	var geo swath.Geolocation
	if len(geoFile) > 0 {
		geo, err = loadGeo(cfg)
		if err != nil {
			fatalError(err)
		}
	}

	var lead []leadgeom.LatLon
	if len(leadPath) > 0 {
		lead, err = readLead(leadPath)
		if err != nil {
			fatalError(err)
		}

		marks := leadPixels(lead, geo, band, iLog)
		iLog.Infof("Marking %v of %v lead points", len(marks), len(lead))
		img = imageedit.MarkLocations(img, marks, color.RGBA{R: 255, A: 255})
	}

	if width > 0 {
		img = imageedit.ScaleImage(img, width)
	}

	format, err := imageedit.FormatForPath(outPath)
	if err != nil {
		fatalError(err)
	}
	imgBytes, err := imageedit.GetImageBytes(img, format)
	if err != nil {
		fatalError(err)
	}

	localFS := fileaccess.FSAccess{}
	if err := localFS.WriteObject("", outPath, imgBytes); err != nil {
		fatalError(err)
	}
	iLog.Infof("Wrote quicklook to %v", outPath)

	if len(mapPath) > 0 {
		if err := drawMap(cfg, geo, lead, iLog); err != nil {
			fatalError(err)
		}
		iLog.Infof("Wrote map to %v", mapPath)
	}
}

// netCDF-C only reads local files, so anything in S3 is downloaded to a temp dir first.
// Returns the path to read and the temp dir the caller must remove ("" for local paths)
func localCopy(path string, region string) (string, string, error) {
	if !strings.HasPrefix(path, "s3://") {
		return path, "", nil
	}

	bucket, err := fileaccess.GetBucketFromS3Url(path)
	if err != nil {
		return "", "", err
	}
	s3Path, err := fileaccess.GetPathFromS3Url(path)
	if err != nil {
		return "", "", err
	}

	sess, err := awsutil.GetSessionWithRegion(region)
	if err != nil {
		return "", "", fmt.Errorf("Failed to create AWS session. Error: %v", err)
	}
	s3svc, err := awsutil.GetS3(sess)
	if err != nil {
		return "", "", fmt.Errorf("Failed to create AWS S3 service. Error: %v", err)
	}

	localDir, err := os.MkdirTemp("", toolName)
	if err != nil {
		return "", "", err
	}
	localPath, err := fileaccess.MakeLocalCopy(fileaccess.MakeS3Access(s3svc), bucket, s3Path, localDir)
	if err != nil {
		os.RemoveAll(localDir)
		return "", "", err
	}
	return localPath, localDir, nil
}

// The loaders below read everything into memory, so the downloaded copy is removed before
// returning. Fatal exits skip deferred calls, so they must not happen in here
func loadBand(cfg config.LeadkitConfig, calibration swath.Calibration) (swath.Band, error) {
	localImageFile, tempDir, err := localCopy(imageFile, cfg.AWSRegion)
	if err != nil {
		return swath.Band{}, err
	}
	defer os.RemoveAll(tempDir)

	return swath.LoadBand(localImageFile, datasetName, bandName, calibration)
}

func loadGeo(cfg config.LeadkitConfig) (swath.Geolocation, error) {
	localGeoFile, tempDir, err := localCopy(geoFile, cfg.AWSRegion)
	if err != nil {
		return swath.Geolocation{}, err
	}
	defer os.RemoveAll(tempDir)

	return swath.GetGeoWithVars(localGeoFile, swath.GeoVars{Lat: latVar, Lon: lonVar})
}

func loadAttr(cfg config.LeadkitConfig) (swath.Attr, error) {
	localImageFile, tempDir, err := localCopy(imageFile, cfg.AWSRegion)
	if err != nil {
		return swath.Attr{}, err
	}
	defer os.RemoveAll(tempDir)

	return swath.GetHDFAttr(localImageFile, datasetName, attrName)
}

func printAttr(cfg config.LeadkitConfig) {
	attr, err := loadAttr(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if attr.IsText() {
		fmt.Println(attr.Text)
	} else {
		fmt.Println(attr.Values)
	}
}

func readLead(path string) ([]leadgeom.LatLon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return leadgeom.ReadLeadCSV(bytes.NewReader(data))
}

// Geolocation can be coarser than the band (eg 1km geo for 500m bands), so pixels are scaled across
func leadPixels(lead []leadgeom.LatLon, geo swath.Geolocation, band swath.Band, iLog logger.ILogger) []image.Point {
	marks := []image.Point{}
	for _, pt := range lead {
		px, km := geo.NearestPixel(pt)
		if px.X < 0 || km > maxMarkKm {
			iLog.Debugf("Lead point %v,%v is %.1f km from the swath, not marked", pt.Lat, pt.Lon, km)
			continue
		}
		marks = append(marks, image.Point{
			X: px.X * band.Cols / geo.Cols,
			Y: px.Y * band.Rows / geo.Rows,
		})
	}
	return marks
}

func drawMap(cfg config.LeadkitConfig, geo swath.Geolocation, lead []leadgeom.LatLon, iLog logger.ILogger) error {
	m, err := cartomap.NewMap(cartomap.MapOptions{
		Projection: cfg.MapProjection,
		FeatureDir: cfg.NaturalEarthDir,
		Title:      filepath.Base(imageFile),
	})
	if err != nil {
		return err
	}

	if len(cfg.NaturalEarthDir) > 0 {
		land := cartomap.DefaultLandOptions()
		coast := cartomap.DefaultCoastOptions()
		if len(cfg.NaturalEarthScale) > 0 {
			land.Scale = cfg.NaturalEarthScale
			coast.Scale = cfg.NaturalEarthScale
		}
		if err := m.AddLand(land); err != nil {
			return err
		}
		if err := m.AddCoast(coast); err != nil {
			return err
		}
	}

	if err := m.AddGrid(cartomap.DefaultGridOptions()); err != nil {
		return err
	}

	footprint := cartomap.DefaultTrackOptions()
	footprint.Color = color.RGBA{R: 20, G: 60, B: 200, A: 255}
	footprint.Closed = true
	if err := m.AddTrack(geo.Footprint(), footprint); err != nil {
		return err
	}

	if len(lead) > 0 {
		if err := m.AddTrack(lead, cartomap.DefaultTrackOptions()); err != nil {
			return err
		}
	}

	sensor, err := satfilename.SensorByName(cfg.Sensor)
	if err != nil {
		return err
	}
	if date, err := swath.GetDate(filepath.Base(imageFile), sensor); err != nil {
		iLog.Errorf("No date on map: %v", err)
	} else if err := m.AddDate(date, cartomap.DefaultDateOptions()); err != nil {
		return err
	}

	return m.Save(mapPath, 8*vg.Inch, 8*vg.Inch)
}

func fatalError(err error) {
	errorreport.Report(err, toolName)
	errorreport.Flush()
	log.Fatalf("%v", err)
}
