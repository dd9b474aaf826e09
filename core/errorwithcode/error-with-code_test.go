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

package errorwithcode

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

func Example_codedErrorMessages() {
	fmt.Println(MakeOddFileCountError("/data/2020001/", ".hdf", 3))
	fmt.Println(MakeNoImageMatchError("/data/", "MOD03.A2020001.1200.061.2020002000000.hdf"))
	fmt.Println(MakeUndersizedFileError("/data/", "MOD03.A2020001.1200.061.hdf", 12.34, 28))
	fmt.Println(MakeBadInputError(errors.New("unrecognised sensor: AVHRR")))

	// Output:
	// folder /data/2020001/: odd number (3) of .hdf files found in folder, should be one geo file per imagery file
	// folder /data/, file MOD03.A2020001.1200.061.2020002000000.hdf: date match could not be found for geo file in image list
	// folder /data/, file MOD03.A2020001.1200.061.hdf: file is only 12.3 MB (minimum 28.0 MB), likely corrupted
	// unrecognised sensor: AVHRR
}

func Example_codeOf() {
	wrapped := pkgerrors.Wrap(MakeFileAccessError("a.hdf", errors.New("permission denied")), "loading band")
	code, ok := CodeOf(wrapped)
	fmt.Printf("%v|%v\n", code, ok)

	_, ok = CodeOf(errors.New("plain"))
	fmt.Printf("%v\n", ok)

	var coded CodedError
	fmt.Printf("%v\n", errors.As(wrapped, &coded))

	// Output:
	// file-access|true
	// false
	// true
}
