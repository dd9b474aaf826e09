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
	"image/color"
	"log"
	"os"

	"github.com/seaicelab/leadkit/core/cartomap"
	"github.com/seaicelab/leadkit/core/config"
	"github.com/seaicelab/leadkit/core/errorreport"
	"github.com/seaicelab/leadkit/core/leadgeom"
	"github.com/seaicelab/leadkit/core/logger"
	"gonum.org/v1/plot/vg"
)

const toolName = "space-lead"

var release = "dev"

var inPath string
var outPath string
var plotPath string
var mapPath string

func main() {
	flag.StringVar(&inPath, "in", "", "CSV of lat,lon points along the lead")
	flag.StringVar(&outPath, "out", "", "CSV to write evenly spaced points to. Empty = stdout")
	flag.StringVar(&plotPath, "plot", "", "Optional image of the spacing between output points")
	flag.StringVar(&mapPath, "map", "", "Optional map of the input and output points")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	if len(inPath) <= 0 {
		log.Fatalf("Parameter: in was empty")
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Results go to stdout, so logs go to stderr
	iLog := logger.NewStdErrLogger(level)

	errorreport.Init(cfg.SentryEndpoint, cfg.EnvironmentName, release, iLog)
	defer errorreport.Flush()

	inData, err := os.ReadFile(inPath)
	if err != nil {
		fatalError(err)
	}

	lead, err := leadgeom.ReadLeadCSV(bytes.NewReader(inData))
	if err != nil {
		fatalError(err)
	}

	spacing := cfg.SpacingOptions()
	spaced, err := leadgeom.SpaceEvenly(lead, spacing)
	if err != nil {
		fatalError(err)
	}

	summary := leadgeom.SummariseSpacing(spaced)
	iLog.Infof("Read %v points, resampled to %v. Spacing: %v", len(lead), len(spaced), summary)

	if len(outPath) > 0 {
		f, err := os.Create(outPath)
		if err != nil {
			fatalError(err)
		}
		err = leadgeom.WriteLeadCSV(f, spaced)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			fatalError(err)
		}
	} else if err := leadgeom.WriteLeadCSV(os.Stdout, spaced); err != nil {
		fatalError(err)
	}

	if len(plotPath) > 0 {
		errorKm := spacing.ErrorKm
		if errorKm <= 0 {
			errorKm = leadgeom.DefaultErrorKm
		}
		if err := leadgeom.PlotArcDistances(leadgeom.ArcDistances(spaced), errorKm, plotPath); err != nil {
			fatalError(err)
		}
		iLog.Infof("Wrote spacing plot to %v", plotPath)
	}

	if len(mapPath) > 0 {
		if err := drawMap(cfg, lead, spaced); err != nil {
			fatalError(err)
		}
		iLog.Infof("Wrote map to %v", mapPath)
	}
}

func drawMap(cfg config.LeadkitConfig, lead []leadgeom.LatLon, spaced []leadgeom.LatLon) error {
	m, err := cartomap.NewMap(cartomap.MapOptions{
		Projection: cfg.MapProjection,
		FeatureDir: cfg.NaturalEarthDir,
		Title:      inPath,
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

	input := cartomap.DefaultTrackOptions()
	input.Alpha = 0.5
	if err := m.AddTrack(lead, input); err != nil {
		return err
	}

	output := cartomap.DefaultTrackOptions()
	output.Color = color.RGBA{R: 20, G: 60, B: 200, A: 255}
	output.LineWidth = 0
	output.MarkerRadius = 2
	output.ZOrder++
	if err := m.AddTrack(spaced, output); err != nil {
		return err
	}

	return m.Save(mapPath, 8*vg.Inch, 8*vg.Inch)
}

func fatalError(err error) {
	errorreport.Report(err, toolName)
	errorreport.Flush()
	log.Fatalf("%v", err)
}
