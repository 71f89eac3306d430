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

package batchrequest

import (
	"bytes"
	"fmt"

	"batch-runner/pkg/orchestrator"

	"gopkg.in/yaml.v3"
)

// Document is the SubmitJob request body, keyed by the AWS Batch API field names.
type Document struct {
	JobName            string             `yaml:"jobName"`
	JobQueue           string             `yaml:"jobQueue"`
	JobDefinition      string             `yaml:"jobDefinition"`
	ContainerOverrides ContainerOverrides `yaml:"containerOverrides"`
	RetryStrategy      RetryStrategy      `yaml:"retryStrategy"`
	DependsOn          []Dependency       `yaml:"dependsOn"`
	ArrayProperties    *ArrayProperties   `yaml:"arrayProperties,omitempty"`
}

type ContainerOverrides struct {
	Command []string `yaml:"command"`
}

type RetryStrategy struct {
	Attempts int32 `yaml:"attempts"`
}

type Dependency struct {
	JobID string `yaml:"jobId"`
}

type ArrayProperties struct {
	Size int32 `yaml:"size"`
}

// NewDocument maps a request onto its SubmitJob document.
func NewDocument(req orchestrator.JobRequest) Document {
	doc := Document{
		JobName:            req.JobName,
		JobQueue:           req.QueueName,
		JobDefinition:      req.JobDefinitionName,
		ContainerOverrides: ContainerOverrides{Command: append([]string{}, req.CommandTokens...)},
		RetryStrategy:      RetryStrategy{Attempts: req.MaxAttempts},
		DependsOn:          make([]Dependency, 0, len(req.ParentJobIDs)),
	}
	for _, id := range req.ParentJobIDs {
		doc.DependsOn = append(doc.DependsOn, Dependency{JobID: id})
	}
	if req.ArraySize != nil {
		doc.ArrayProperties = &ArrayProperties{Size: *req.ArraySize}
	}
	return doc
}

// Render generates the YAML form of the SubmitJob request for req.
func Render(req orchestrator.JobRequest) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(req)); err != nil {
		return "", fmt.Errorf("failed to encode submit request for %s: %w", req.JobName, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to flush submit request for %s: %w", req.JobName, err)
	}
	return buf.String(), nil
}
