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

package logger

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func Example_logLevelFromString() {
	for _, s := range []string{"DEBUG", "info", " Error ", "verbose"} {
		lvl, err := LogLevelFromString(s)
		fmt.Printf("%v|%v\n", lvl, err)
	}

	// Output:
	// DEBUG|<nil>
	// INFO|<nil>
	// ERROR|<nil>
	// INFO|unknown log level: "verbose"
}

func Example_memLogger() {
	l := &MemLogger{}
	l.Infof("scanned %v files", 4)
	l.Errorf("failed: %v", "disk")
	l.Debugf("detail")

	for _, line := range l.Lines {
		fmt.Println(line)
	}

	// Output:
	// INFO: scanned 4 files
	// ERROR: failed: disk
	// DEBUG: detail
}

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, LogInfo)

	l.Debugf("hidden")
	l.Infof("Scanned %v files", 12)
	l.SetLogLevel(LogError)
	l.Infof("also hidden")
	l.Errorf("failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], " INFO: Scanned 12 files") {
		t.Errorf("unexpected line: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " ERROR: failed") {
		t.Errorf("unexpected line: %q", lines[1])
	}
	if l.GetLogLevel() != LogError {
		t.Errorf("unexpected level: %v", l.GetLogLevel())
	}
}
