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
	"io"
	"log"
	"os"
)

// WriterLogger writes timestamped (UTC) lines to an io.Writer, dropping anything below its log level
type WriterLogger struct {
	logLevel LogLevel
	out      *log.Logger
}

func NewWriterLogger(w io.Writer, level LogLevel) *WriterLogger {
	return &WriterLogger{logLevel: level, out: log.New(w, "", log.LstdFlags|log.LUTC)}
}

func NewStdOutLogger(level LogLevel) *WriterLogger {
	return NewWriterLogger(os.Stdout, level)
}

// NewStdErrLogger - for tools whose stdout is piped into other programs
func NewStdErrLogger(level LogLevel) *WriterLogger {
	return NewWriterLogger(os.Stderr, level)
}

func (l *WriterLogger) Printf(level LogLevel, format string, a ...interface{}) {
	if level >= l.logLevel {
		l.out.Println(formatLine(level, format, a...))
	}
}
func (l *WriterLogger) Debugf(format string, a ...interface{}) {
	l.Printf(LogDebug, format, a...)
}
func (l *WriterLogger) Infof(format string, a ...interface{}) {
	l.Printf(LogInfo, format, a...)
}
func (l *WriterLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}

func (l *WriterLogger) SetLogLevel(level LogLevel) {
	l.logLevel = level
}
func (l *WriterLogger) GetLogLevel() LogLevel {
	return l.logLevel
}
