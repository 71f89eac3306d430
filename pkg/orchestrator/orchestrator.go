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

package orchestrator

import "context"

// DefaultAttempts is the retry attempt count used when a submission does not set one.
const DefaultAttempts = 3

// JobRequest holds everything needed to submit one containerized command to a batch queue.
// Requests are built by NewJobRequest and are not modified afterwards.
type JobRequest struct {
	CommandType       string
	ExperimentID      string
	JobName           string
	QueueName         string
	JobDefinitionName string
	CommandTokens     []string
	MaxAttempts       int32
	ParentJobIDs      []string

	// ArraySize is nil for a plain job.
	ArraySize *int32
}

// JobHandle identifies a submitted job. Ownership passes to the caller.
type JobHandle struct {
	JobID   string
	JobName string
	JobArn  string
}

// Orchestrator defines the interface for submitting jobs to a batch compute service.
type Orchestrator interface {
	// SubmitJob sends a single request and returns the service-assigned handle.
	SubmitJob(ctx context.Context, req JobRequest) (JobHandle, error)
}
