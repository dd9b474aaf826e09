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

package awsutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// MockS3Client - replays queued outputs, checking each request against the expected inputs
// in order. Any S3API function not implemented here panics (nil embedded interface)
type MockS3Client struct {
	mutex sync.Mutex

	s3iface.S3API

	// Expected requests
	ExpListObjectsV2Input []s3.ListObjectsV2Input
	ExpGetObjectInput     []s3.GetObjectInput

	// Responses replayed as each request comes in
	QueuedListObjectsV2Output []*s3.ListObjectsV2Output
	QueuedGetObjectOutput     []*s3.GetObjectOutput
}

const ErrNoMoreInputsExpected = "No more inputs expected for "
const ErrWrongInput = "Incorrect input in "
const ErrNothingToReturn = "Nothing to return from "
const ErrReturningError = "Returning error from "

// FinishTest - checks every expected request was made and every queued output was used. Also
// prints the problem, so Example tests fail on it too
func (m *MockS3Client) FinishTest() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	leftovers := []struct {
		what  string
		count int
	}{
		{"ListObjectsV2 calls expected", len(m.ExpListObjectsV2Input)},
		{"GetObject calls expected", len(m.ExpGetObjectInput)},
		{"ListObjectsV2 outputs queued", len(m.QueuedListObjectsV2Output)},
		{"GetObject outputs queued", len(m.QueuedGetObjectOutput)},
	}

	for _, left := range leftovers {
		if left.count > 0 {
			err := fmt.Errorf("%v more %v", left.count, left.what)
			fmt.Println(err)
			return err
		}
	}
	return nil
}

type stringer interface {
	String() string
}

// replay - pops the next expected input, checks it matches, then pops and returns the next output.
// A nil queued output is returned as notFoundErr
func replay[I stringer, O any](name string, input I, expList *[]I, outputs *[]*O, notFoundErr error) (*O, error) {
	if len(*expList) <= 0 {
		return nil, errors.New(ErrNoMoreInputsExpected + name)
	}
	if len(*outputs) <= 0 {
		return nil, errors.New(ErrNothingToReturn + name)
	}

	exp := (*expList)[0]
	result := (*outputs)[0]
	*expList = (*expList)[1:]
	*outputs = (*outputs)[1:]

	if exp.String() != input.String() {
		return nil, fmt.Errorf("%v expected: %q, got: %q", ErrWrongInput+name, exp.String(), input.String())
	}
	if result == nil {
		return nil, notFoundErr
	}
	return result, nil
}

func (m *MockS3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return replay("ListObjectsV2", *input, &m.ExpListObjectsV2Input, &m.QueuedListObjectsV2Output, errors.New(ErrReturningError+"ListObjectsV2"))
}

// ListObjectsV2Pages - pages through ListObjectsV2 the way the SDK does, passing each
// response's NextContinuationToken into the next request
func (m *MockS3Client) ListObjectsV2Pages(input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool) error {
	page := *input
	for {
		output, err := m.ListObjectsV2(&page)
		if err != nil {
			return err
		}

		lastPage := output.IsTruncated == nil || !*output.IsTruncated || output.NextContinuationToken == nil
		if !fn(output, lastPage) || lastPage {
			return nil
		}
		page.ContinuationToken = output.NextContinuationToken
	}
}

func (m *MockS3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return replay("GetObject", *input, &m.ExpGetObjectInput, &m.QueuedGetObjectOutput, awserr.New(s3.ErrCodeNoSuchKey, ErrReturningError+"GetObject", nil))
}
