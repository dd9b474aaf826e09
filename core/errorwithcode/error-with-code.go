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

// Typed errors and warnings, so callers can act on what went wrong during a scan
// or a file read instead of parsing printed messages
package errorwithcode

import (
	"fmt"
	"strings"
)

type Code int

const (
	// CodeBadInput - caller broke a precondition (bad sensor name, negative step...)
	CodeBadInput Code = iota
	// CodeOddFileCount - folder doesn't hold one geo file per image file
	CodeOddFileCount
	// CodeNoImageMatch - geo file with no image file of the same satellite and time
	CodeNoImageMatch
	// CodeUnmatchedImage - image file left over after all geo files were paired
	CodeUnmatchedImage
	// CodeUndersizedFile - file smaller than the configured minimum, likely corrupted
	CodeUndersizedFile
	// CodeMalformedFileName - file name doesn't follow the date convention
	CodeMalformedFileName
	// CodeFileAccess - file couldn't be listed, opened or read
	CodeFileAccess
)

var codeNames = map[Code]string{
	CodeBadInput:          "bad-input",
	CodeOddFileCount:      "odd-file-count",
	CodeNoImageMatch:      "no-image-match",
	CodeUnmatchedImage:    "unmatched-image",
	CodeUndersizedFile:    "undersized-file",
	CodeMalformedFileName: "malformed-file-name",
	CodeFileAccess:        "file-access",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code-%v", int(c))
}

// AllCodes - in declaration order, for anything that needs to report on each kind
func AllCodes() []Code {
	return []Code{CodeBadInput, CodeOddFileCount, CodeNoImageMatch, CodeUnmatchedImage, CodeUndersizedFile, CodeMalformedFileName, CodeFileAccess}
}

type Error interface {
	error
	Code() Code
}

type CodedError struct {
	Kind   Code
	Folder string
	File   string
	Err    error
}

func (ce CodedError) Error() string {
	parts := []string{}
	if len(ce.Folder) > 0 {
		parts = append(parts, "folder "+ce.Folder)
	}
	if len(ce.File) > 0 {
		parts = append(parts, "file "+ce.File)
	}

	msg := ""
	if ce.Err != nil {
		msg = ce.Err.Error()
	}

	if len(parts) <= 0 {
		return msg
	}
	return strings.Join(parts, ", ") + ": " + msg
}

func (ce CodedError) Code() Code {
	return ce.Kind
}

func (ce CodedError) Unwrap() error {
	return ce.Err
}

func MakeBadInputError(err error) CodedError {
	return CodedError{Kind: CodeBadInput, Err: err}
}

func MakeOddFileCountError(folder string, fileType string, count int) CodedError {
	return CodedError{
		Kind:   CodeOddFileCount,
		Folder: folder,
		Err:    fmt.Errorf("odd number (%v) of %v files found in folder, should be one geo file per imagery file", count, fileType),
	}
}

func MakeNoImageMatchError(folder string, geoFile string) CodedError {
	return CodedError{
		Kind:   CodeNoImageMatch,
		Folder: folder,
		File:   geoFile,
		Err:    fmt.Errorf("date match could not be found for geo file in image list"),
	}
}

func MakeUnmatchedImageError(folder string, imageFile string) CodedError {
	return CodedError{
		Kind:   CodeUnmatchedImage,
		Folder: folder,
		File:   imageFile,
		Err:    fmt.Errorf("no geo file found for image file"),
	}
}

func MakeUndersizedFileError(folder string, file string, sizeMB float64, minSizeMB float64) CodedError {
	return CodedError{
		Kind:   CodeUndersizedFile,
		Folder: folder,
		File:   file,
		Err:    fmt.Errorf("file is only %.1f MB (minimum %.1f MB), likely corrupted", sizeMB, minSizeMB),
	}
}

func MakeMalformedFileNameError(folder string, file string, err error) CodedError {
	return CodedError{Kind: CodeMalformedFileName, Folder: folder, File: file, Err: err}
}

func MakeFileAccessError(file string, err error) CodedError {
	return CodedError{Kind: CodeFileAccess, File: file, Err: err}
}

// CodeOf - returns the code of err if it (or anything it wraps) is a coded error
func CodeOf(err error) (Code, bool) {
	for err != nil {
		if coded, ok := err.(Error); ok {
			return coded.Code(), true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		err = unwrapper.Unwrap()
	}
	return 0, false
}
