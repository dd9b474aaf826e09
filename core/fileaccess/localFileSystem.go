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

package fileaccess

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSAccess - Implementation of FileAccess for local file system
type FSAccess struct {
}

func (fs *FSAccess) ListObjects(rootPath string, prefix string) ([]string, error) {
	infos, err := fs.ListObjectsWithSize(rootPath, prefix)
	return objectPaths(infos), err
}

// ListObjectsWithSize - lists files under rootPath whose relative path starts with prefix,
// matching S3 prefix semantics. A prefix pointing nowhere gives an empty listing, not an error
func (fs *FSAccess) ListObjectsWithSize(rootPath string, prefix string) ([]ObjectInfo, error) {
	result := []ObjectInfo{}

	rootOnly := path.Join(rootPath) // Using path.Join to make it match the walked paths, cleans off ./ for example
	walkFrom := fs.filePath(rootPath, prefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, "/") {
		// Prefix ends in a partial file name, so walk its directory and filter
		walkFrom = filepath.Dir(walkFrom)
	}

	err := filepath.Walk(walkFrom, func(pathFound string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}

		toSave := filepath.ToSlash(pathFound)
		if rel, relErr := filepath.Rel(rootOnly, pathFound); relErr == nil {
			toSave = filepath.ToSlash(rel)
		}

		if strings.HasPrefix(toSave, prefix) {
			result = append(result, ObjectInfo{Path: toSave, SizeBytes: info.Size()})
		}
		return nil
	})

	return result, err
}

func (fs *FSAccess) ObjectExists(rootPath string, path string) (bool, error) {
	_, err := os.Stat(fs.filePath(rootPath, path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (fs *FSAccess) ReadObject(rootPath string, path string) ([]byte, error) {
	fullPath := fs.filePath(rootPath, path)
	return os.ReadFile(fullPath)
}

func (fs *FSAccess) WriteObject(rootPath string, path string, data []byte) error {
	fullPath := fs.filePath(rootPath, path)

	// Ensure any subdirs in between are created
	createPath := filepath.Dir(fullPath)
	err := os.MkdirAll(createPath, 0777)
	if err != nil {
		return err
	}

	// Write the file out, this will create if needed else truncate and write
	return os.WriteFile(fullPath, data, 0666)
}

func (fs *FSAccess) ReadJSON(rootPath string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	return readJSON(fs, rootPath, path, itemsPtr, emptyIfNotFound)
}

func (fs *FSAccess) WriteJSON(rootPath string, path string, itemsPtr interface{}) error {
	return writeJSON(fs, rootPath, path, itemsPtr)
}

func (fs *FSAccess) IsNotFoundError(err error) bool {
	return os.IsNotExist(err)
}

func (fs *FSAccess) filePath(rootPath string, filePath string) string {
	return path.Join(rootPath, filePath)
}
