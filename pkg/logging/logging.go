// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging wraps logrus with the printf-style helpers used across batch-runner.
package logging

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	logger = newLogger(os.Stderr)

	// exitFunc is replaced in tests so Fatal can be observed.
	exitFunc = os.Exit

	successColor = color.New(color.FgGreen)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return l
}

// SetOutput redirects all log output, including success lines.
func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

// SetLevel parses and applies a logrus level name such as "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// ConfigureColor disables colored output when requested or when the current
// log output is not a terminal.
func ConfigureColor(disable bool) {
	color.NoColor = disable || !isTerminal(logger.Out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		DisableColors:          color.NoColor,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WithField returns an entry carrying a structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}

// Debug logs at debug level.
func Debug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Info logs at info level.
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Warn logs at warn level.
func Warn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Fatal logs at error level and exits with status 1.
func Fatal(format string, args ...interface{}) {
	logger.Errorf(format, args...)
	exitFunc(1)
}

// Success writes a green informational line to the log output, independent of the log level.
// Stdout is left to command results such as job IDs.
func Success(format string, args ...interface{}) {
	successColor.Fprintf(logger.Out, format+"\n", args...)
}
