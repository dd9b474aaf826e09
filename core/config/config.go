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

// Configuration for the leadkit command line tools, read from JSON with any field
// overridable through LEADKIT_CONFIG_<FieldName> environment variables
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/seaicelab/leadkit/core/imagepairs"
	"github.com/seaicelab/leadkit/core/leadgeom"
	"github.com/seaicelab/leadkit/core/logger"
	"github.com/seaicelab/leadkit/core/satfilename"
)

const envPrefix = "LEADKIT_CONFIG_"

// LeadkitConfig combines env vars and config JSON values
type LeadkitConfig struct {
	LogLevel        string // DEBUG, INFO or ERROR
	EnvironmentName string
	SentryEndpoint  string // Error reporting is off if empty
	AWSRegion       string // Only needed when reading from S3

	// Pairing
	Sensor               string   // MODIS or VIIRS
	SatelliteLabels      []string // GEO:IMAGE, eg MOD03:MOD021KM. Empty = sensor defaults
	MinGeoFileSizeMB     *float64 // null = no size check
	MinImageFileSizeMB   *float64
	MaxDiffMinutes       int32
	LatestProductionOnly bool

	// Lead spacing
	StepKm  float64
	ErrorKm float64

	// Maps
	NaturalEarthDir   string
	NaturalEarthScale string // 10m, 50m or 110m
	MapProjection     string // proj4 string, empty = north polar stereographic

	// Node exporter textfile collector path for scan metrics. Empty = don't write
	MetricsTextfile string
}

func defaultConfig() LeadkitConfig {
	return LeadkitConfig{
		LogLevel:          logger.LogInfo.String(),
		EnvironmentName:   "local",
		Sensor:            satfilename.MODIS.Name,
		MaxDiffMinutes:    imagepairs.DefaultMaxDiffMinutes,
		StepKm:            leadgeom.DefaultStepKm,
		ErrorKm:           leadgeom.DefaultErrorKm,
		NaturalEarthScale: "50m",
	}
}

func NewConfigFromFile(configFilePath string) (LeadkitConfig, error) {
	fmt.Fprintf(os.Stderr, "Loading custom config from: %s\n", configFilePath)
	customConfig, err := os.ReadFile(configFilePath)
	if err != nil {
		return defaultConfig(), fmt.Errorf("could not read config file at %s", configFilePath)
	}
	return buildConfig(customConfig)
}

func NewConfigFromJSON(configJSON string) (LeadkitConfig, error) {
	return buildConfig([]byte(configJSON))
}

func buildConfig(configJSON []byte) (LeadkitConfig, error) {
	cfg := defaultConfig()

	err := json.Unmarshal(configJSON, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse custom config: %v", err)
	}

	// Override Config with any values explicitly set in Env Vars (LEADKIT_CONFIG_*)
	// NOTE: For []string slices, pass in a comma-separated string to the corresponding LEADKIT_CONFIG_ var
	// 			Ex: export LEADKIT_CONFIG_SatelliteLabels="MOD03:MOD021KM,MYD03:MYD021KM"
	// For nullable numbers, an empty string clears the value
	reflection := reflect.ValueOf(&cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)
		val, present := os.LookupEnv(envPrefix + fieldName)
		if !present {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(val)
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				slicedVal := strings.Split(val, ",")
				field.Set(reflect.ValueOf(slicedVal))
			}
		case reflect.Int32:
			i, err := strconv.Atoi(val)
			if err != nil {
				return cfg, fmt.Errorf("could not cast value %v%s=%s to int", envPrefix, fieldName, val)
			}
			field.SetInt(int64(i))
		case reflect.Float64:
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return cfg, fmt.Errorf("could not cast value %v%s=%s to float", envPrefix, fieldName, val)
			}
			field.SetFloat(f)
		case reflect.Bool:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return cfg, fmt.Errorf("could not cast value %v%s=%s to bool", envPrefix, fieldName, val)
			}
			field.SetBool(b)
		case reflect.Ptr:
			if field.Type().Elem().Kind() != reflect.Float64 {
				continue
			}
			if len(strings.TrimSpace(val)) <= 0 {
				field.Set(reflect.Zero(field.Type()))
				continue
			}
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return cfg, fmt.Errorf("could not cast value %v%s=%s to float", envPrefix, fieldName, val)
			}
			field.Set(reflect.ValueOf(&f))
		}
	}
	return cfg, nil
}

// Init config, reads -customConfigPath from the command line. Tools register their own flags
// before calling this. Without a config file, defaults (plus env overrides) are used
func Init() (LeadkitConfig, error) {
	configFilePath := flag.String("customConfigPath", "", "Path to the json file holding a set of custom config for leadkit")
	flag.Parse()

	if configFilePath != nil && *configFilePath != "" {
		return NewConfigFromFile(*configFilePath)
	}
	return buildConfig([]byte("{}"))
}

func (cfg LeadkitConfig) Level() (logger.LogLevel, error) {
	return logger.LogLevelFromString(cfg.LogLevel)
}

// PairingOptions - options for imagepairs built from this config
func (cfg LeadkitConfig) PairingOptions() (imagepairs.Options, error) {
	sensor, err := satfilename.SensorByName(cfg.Sensor)
	if err != nil {
		return imagepairs.Options{}, err
	}

	opts := imagepairs.MakeDefaultOptions(sensor)
	if len(cfg.SatelliteLabels) > 0 {
		opts.SatelliteLabels, err = satfilename.ParseSatelliteLabels(cfg.SatelliteLabels)
		if err != nil {
			return opts, err
		}
	}

	opts.MinGeoFileSizeMB = cfg.MinGeoFileSizeMB
	opts.MinImageFileSizeMB = cfg.MinImageFileSizeMB
	opts.MaxDiffMinutes = int(cfg.MaxDiffMinutes)
	opts.LatestProductionOnly = cfg.LatestProductionOnly
	return opts, nil
}

func (cfg LeadkitConfig) SpacingOptions() leadgeom.SpacingOptions {
	return leadgeom.SpacingOptions{StepKm: cfg.StepKm, ErrorKm: cfg.ErrorKm}
}
