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

package errorreport

import (
	"errors"
	"fmt"

	"github.com/seaicelab/leadkit/core/logger"
)

func Example_disabled() {
	log := &logger.MemLogger{}
	fmt.Println(Init("", "unit-test", "0.0.1", log))
	fmt.Println(Enabled())

	// Must not blow up when disabled
	Report(errors.New("something failed"), "unit-test")
	ReportMessage("something odd", "unit-test")
	Flush()

	fmt.Println(log.Lines)

	// Output:
	// false
	// false
	// [DEBUG: No sentry endpoint configured, error reporting disabled]
}

func Example_badDSN() {
	log := &logger.MemLogger{}
	fmt.Println(Init("not a dsn", "unit-test", "0.0.1", log))
	fmt.Println(Enabled())
	fmt.Println(len(log.Lines))

	// Output:
	// false
	// false
	// 1
}
