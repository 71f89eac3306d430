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

// Package config resolves the AWS Batch settings used by the runner.
//
// Values come from, in increasing precedence: literal defaults, a config file
// with an [AWS_BATCH] section, AWS_BATCH_* environment variables, and command
// line flags bound through BindFlag. Resolution happens once in Load.
package config

import (
	"path/filepath"
	"strings"

	"batch-runner/pkg/orchestrator"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Section is the config file section holding the batch settings.
const Section = "aws_batch"

// Keys within Section.
const (
	KeyGPU           = "gpu"
	KeyAttempts      = "attempts"
	KeyJobQueue      = "job_queue"
	KeyJobDefinition = "job_definition"
	KeyRegion        = "region"
)

// Default queue and job definition names, chosen by the accelerated-hardware flag.
const (
	DefaultGPUJobQueue      = "raster-vision-gpu"
	DefaultCPUJobQueue      = "raster-vision-cpu"
	DefaultGPUJobDefinition = "raster-vision-gpu"
	DefaultCPUJobDefinition = "raster-vision-cpu"
)

// Batch is the resolved configuration. JobQueue and JobDefinition are never empty
// after Load.
type Batch struct {
	GPU           bool
	Attempts      int
	JobQueue      string
	JobDefinition string

	// Region is empty when the SDK's default region chain should be used.
	Region string
}

// defaults returns the literal fallbacks used when nothing is configured.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyGPU:           true,
		KeyAttempts:      1,
		KeyJobQueue:      "",
		KeyJobDefinition: "",
		KeyRegion:        "",
	}
}

// Loader gathers raw settings from a file, the environment and flags.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader returns a Loader that reads config files from fs.
func NewLoader(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)
	for key, value := range defaults() {
		path := accessPath(key)
		v.SetDefault(path, value)
		_ = v.BindEnv(path, EnvName(key))
	}
	return &Loader{v: v, fs: fs}
}

// EnvName returns the environment variable for key, e.g. AWS_BATCH_JOB_QUEUE.
func EnvName(key string) string {
	return strings.ToUpper(Section + "_" + key)
}

func accessPath(key string) string {
	return Section + "." + key
}

// ReadFile merges the settings in path. Files without an extension are read as INI.
func (l *Loader) ReadFile(path string) error {
	if _, err := l.fs.Stat(path); err != nil {
		return &orchestrator.ConfigurationError{Key: "config-file", Err: errors.Wrap(err, "error finding configuration file")}
	}
	l.v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		l.v.SetConfigType("ini")
	}
	if err := l.v.ReadInConfig(); err != nil {
		return &orchestrator.ConfigurationError{Key: "config-file", Err: errors.Wrapf(err, "error reading configuration file %s", path)}
	}
	return nil
}

// BindFlag makes flag override key when it is set on the command line.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	return l.v.BindPFlag(accessPath(key), flag)
}

// Load parses the gathered settings and derives any unset names.
func (l *Loader) Load() (Batch, error) {
	gpu, err := cast.ToBoolE(l.v.Get(accessPath(KeyGPU)))
	if err != nil {
		return Batch{}, &orchestrator.ConfigurationError{Key: accessPath(KeyGPU), Err: err}
	}
	attempts, err := cast.ToIntE(l.v.Get(accessPath(KeyAttempts)))
	if err != nil {
		return Batch{}, &orchestrator.ConfigurationError{Key: accessPath(KeyAttempts), Err: err}
	}
	if err := orchestrator.ValidateAttempts(attempts); err != nil {
		return Batch{}, &orchestrator.ConfigurationError{Key: accessPath(KeyAttempts), Err: err}
	}

	return Resolve(Batch{
		GPU:           gpu,
		Attempts:      attempts,
		JobQueue:      strings.TrimSpace(cast.ToString(l.v.Get(accessPath(KeyJobQueue)))),
		JobDefinition: strings.TrimSpace(cast.ToString(l.v.Get(accessPath(KeyJobDefinition)))),
		Region:        strings.TrimSpace(cast.ToString(l.v.Get(accessPath(KeyRegion)))),
	}), nil
}

// Resolve fills an empty queue or job definition with the default for the hardware flag.
func Resolve(b Batch) Batch {
	if b.JobQueue == "" {
		if b.GPU {
			b.JobQueue = DefaultGPUJobQueue
		} else {
			b.JobQueue = DefaultCPUJobQueue
		}
	}
	if b.JobDefinition == "" {
		if b.GPU {
			b.JobDefinition = DefaultGPUJobDefinition
		} else {
			b.JobDefinition = DefaultCPUJobDefinition
		}
	}
	return b
}
