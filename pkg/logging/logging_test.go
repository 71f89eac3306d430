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

package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	prevNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		color.NoColor = prevNoColor
		logger.SetLevel(logrus.InfoLevel)
	})
	return &buf
}

func TestInfoRespectsLevel(t *testing.T) {
	buf := captureOutput(t)

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSuccessIgnoresLevel(t *testing.T) {
	buf := captureOutput(t)

	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	Success("chip command submitted job with jobName=%s and jobId=%s", "n", "id-1")

	want := "chip command submitted job with jobName=n and jobId=id-1\n"
	if got := buf.String(); got != want {
		t.Errorf("Success() wrote %q, want %q", got, want)
	}
}

func TestFatalExits(t *testing.T) {
	buf := captureOutput(t)
	code := -1
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() { exitFunc = os.Exit })

	Fatal("boom: %v", "bad")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "boom: bad") {
		t.Errorf("fatal message missing: %q", buf.String())
	}
}

func TestConfigureColorFollowsOutput(t *testing.T) {
	captureOutput(t)

	color.NoColor = false
	ConfigureColor(false)
	if !color.NoColor {
		t.Error("color left on for a non-terminal output")
	}

	tmp, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer tmp.Close()
	SetOutput(tmp)
	color.NoColor = false
	ConfigureColor(false)
	if !color.NoColor {
		t.Error("color left on for a regular file output")
	}
}
