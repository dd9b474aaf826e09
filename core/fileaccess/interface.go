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

// Exposes interfaces and structures for accessing files on local file system or in
// AWS S3 buckets. Satellite archives are often synced to S3 straight from LAADS, so
// scanning and reading code talks to FileAccess and doesn't care where files live.
package fileaccess

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/seaicelab/leadkit/core/utils"
)

// ObjectInfo - a listed file and its size, so callers can check for truncated downloads
// without reading anything
type ObjectInfo struct {
	Path      string
	SizeBytes int64
}

// FileAccess - Generic interface for file access. For local file system, the "bucket" is
// the root directory and paths are relative to it
type FileAccess interface {
	ListObjects(bucket string, prefix string) ([]string, error)
	ListObjectsWithSize(bucket string, prefix string) ([]ObjectInfo, error)
	ObjectExists(bucket string, path string) (bool, error)

	ReadObject(bucket string, path string) ([]byte, error)
	WriteObject(bucket string, path string, data []byte) error

	ReadJSON(bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error
	WriteJSON(bucket string, path string, itemsPtr interface{}) error

	IsNotFoundError(err error) bool
}

// MakeLocalCopy - returns a local path for the given file, downloading it into localDir
// first if it's not already on local disk. Format readers (netCDF/HDF) need real files.
func MakeLocalCopy(fs FileAccess, bucket string, path string, localDir string) (string, error) {
	if _, ok := fs.(*FSAccess); ok {
		return filepath.Join(bucket, path), nil
	}

	data, err := fs.ReadObject(bucket, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %v from %v", path, bucket)
	}

	localPath := filepath.Join(localDir, filepath.Base(path))
	err = os.MkdirAll(localDir, 0777)
	if err != nil {
		return "", err
	}

	err = os.WriteFile(localPath, data, 0666)
	if err != nil {
		return "", errors.Wrapf(err, "failed to write local copy of %v", path)
	}

	return localPath, nil
}

func objectPaths(infos []ObjectInfo) []string {
	result := make([]string, 0, len(infos))
	for _, info := range infos {
		result = append(result, info.Path)
	}
	return result
}

// Shared by both implementations, only the byte transport differs
func readJSON(fs FileAccess, bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	data, err := fs.ReadObject(bucket, path)
	if err != nil {
		if emptyIfNotFound && fs.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	return json.Unmarshal(data, itemsPtr)
}

func writeJSON(fs FileAccess, bucket string, path string, itemsPtr interface{}) error {
	data, err := json.MarshalIndent(itemsPtr, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		return err
	}

	return fs.WriteObject(bucket, path, data)
}
