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
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Access - FileAccess over an S3 bucket, eg a LAADS archive mirror
type S3Access struct {
	s3Api s3iface.S3API
}

func MakeS3Access(s3Api s3iface.S3API) S3Access {
	return S3Access{s3Api: s3Api}
}

func (s3Access S3Access) ListObjects(bucket string, prefix string) ([]string, error) {
	infos, err := s3Access.ListObjectsWithSize(bucket, prefix)
	return objectPaths(infos), err
}

// ListObjectsWithSize - every object under prefix, following continuation tokens until the listing ends
func (s3Access S3Access) ListObjectsWithSize(bucket string, prefix string) ([]ObjectInfo, error) {
	result := []ObjectInfo{}
	err := s3Access.s3Api.ListObjectsV2Pages(
		&s3.ListObjectsV2Input{Bucket: aws.String(bucket), Prefix: aws.String(prefix)},
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			result = append(result, objectInfos(page.Contents)...)
			return true
		},
	)
	if err != nil {
		return []ObjectInfo{}, err
	}
	return result, nil
}

func (s3Access S3Access) ObjectExists(bucket string, path string) (bool, error) {
	_, err := s3Access.s3Api.HeadObject(&s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(path)})
	if err == nil {
		return true, nil
	}

	// HEAD responses have no body, so S3 can't say NoSuchKey
	if hasAWSErrorCode(err, "NotFound") {
		return false, nil
	}
	return false, err
}

func (s3Access S3Access) ReadObject(bucket string, path string) ([]byte, error) {
	obj, err := s3Access.s3Api.GetObject(&s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(path)})
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	return io.ReadAll(obj.Body)
}

func (s3Access S3Access) WriteObject(bucket string, path string, data []byte) error {
	_, err := s3Access.s3Api.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
		Body:   bytes.NewReader(data),
	})
	return err
}

func (s3Access S3Access) ReadJSON(bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	return readJSON(s3Access, bucket, path, itemsPtr, emptyIfNotFound)
}

func (s3Access S3Access) WriteJSON(bucket string, path string, itemsPtr interface{}) error {
	return writeJSON(s3Access, bucket, path, itemsPtr)
}

func (s3Access S3Access) IsNotFoundError(err error) bool {
	return hasAWSErrorCode(err, s3.ErrCodeNoSuchKey)
}

func hasAWSErrorCode(err error, code string) bool {
	aerr, ok := err.(awserr.Error)
	return ok && aerr.Code() == code
}

func objectInfos(contents []*s3.Object) []ObjectInfo {
	result := make([]ObjectInfo, 0, len(contents))

	for _, item := range contents {
		// Keys ending in / are "folders" made in the web console, not files
		if item.Key == nil || strings.HasSuffix(*item.Key, "/") {
			continue
		}

		info := ObjectInfo{Path: *item.Key}
		if item.Size != nil {
			info.SizeBytes = *item.Size
		}
		result = append(result, info)
	}

	return result
}

// SplitS3Url - s3://bucket/some/path to (bucket, some/path)
func SplitS3Url(url string) (string, string, error) {
	trimmed := strings.TrimPrefix(url, "s3://")
	if trimmed == url {
		return "", "", fmt.Errorf("not a valid S3 url: %v", url)
	}

	slashPos := strings.Index(trimmed, "/")
	if slashPos <= 0 {
		return "", "", fmt.Errorf("no bucket in S3 url: %v", url)
	}

	return trimmed[0:slashPos], trimmed[slashPos+1:], nil
}

func GetBucketFromS3Url(url string) (string, error) {
	bucket, _, err := SplitS3Url(url)
	return bucket, err
}

func GetPathFromS3Url(url string) (string, error) {
	_, path, err := SplitS3Url(url)
	return path, err
}
