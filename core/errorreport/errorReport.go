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

// Sends tool failures to Sentry. Without a configured endpoint everything here is a no-op
package errorreport

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/seaicelab/leadkit/core/errorwithcode"
	"github.com/seaicelab/leadkit/core/logger"
)

var enabled = false

// Init - returns whether reporting is on
func Init(dsn string, environment string, release string, jobLog logger.ILogger) bool {
	enabled = false
	if len(dsn) <= 0 {
		jobLog.Debugf("No sentry endpoint configured, error reporting disabled")
		return false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	}); err != nil {
		jobLog.Errorf("Sentry initialisation failed: %v", err)
		return false
	}

	enabled = true
	return true
}

func Enabled() bool {
	return enabled
}

// Report - sends the error, tagged with its code if it has one
func Report(err error, tool string) {
	if !enabled || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("tool", tool)
		if code, ok := errorwithcode.CodeOf(err); ok {
			scope.SetTag("code", code.String())
		}
		sentry.CaptureException(err)
	})
}

// ReportMessage - for warnings that aren't errors, but we want to know about
func ReportMessage(msg string, tool string) {
	if !enabled {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("tool", tool)
		sentry.CaptureMessage(msg)
	})
}

// Flush - call before exiting, events are sent asynchronously
func Flush() {
	if enabled {
		sentry.Flush(2 * time.Second)
	}
}
