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

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// submitOptions collects the optional parts of a submission.
type submitOptions struct {
	attempts     int
	parentJobIDs []string
	arraySize    *int32
}

// SubmitOption customizes a job request.
type SubmitOption func(*submitOptions)

// WithAttempts sets the number of attempts the service makes before failing the job.
func WithAttempts(attempts int) SubmitOption {
	return func(o *submitOptions) {
		o.attempts = attempts
	}
}

// WithParentJobIDs makes the job depend on the given jobs, in order.
func WithParentJobIDs(ids ...string) SubmitOption {
	return func(o *submitOptions) {
		o.parentJobIDs = append(o.parentJobIDs, ids...)
	}
}

// WithArraySize declares an array job of the given size.
func WithArraySize(size int32) SubmitOption {
	return func(o *submitOptions) {
		o.arraySize = &size
	}
}

// NewJobRequest builds a request for command, which is split on whitespace without
// any shell interpretation. The job name is derived from commandType and experimentID.
func NewJobRequest(commandType, experimentID, queueName, jobDefinitionName, command string, opts ...SubmitOption) (JobRequest, error) {
	o := submitOptions{attempts: DefaultAttempts}
	for _, opt := range opts {
		opt(&o)
	}

	tokens := SplitCommand(command)
	if len(tokens) == 0 {
		return JobRequest{}, ErrEmptyCommand
	}
	if err := ValidateAttempts(o.attempts); err != nil {
		return JobRequest{}, err
	}

	parents := make([]string, len(o.parentJobIDs))
	copy(parents, o.parentJobIDs)

	return JobRequest{
		CommandType:       commandType,
		ExperimentID:      experimentID,
		JobName:           JobName(commandType, experimentID),
		QueueName:         queueName,
		JobDefinitionName: jobDefinitionName,
		CommandTokens:     tokens,
		MaxAttempts:       int32(o.attempts),
		ParentJobIDs:      parents,
		ArraySize:         o.arraySize,
	}, nil
}

// ValidateAttempts checks that attempts fits the service's positive 32-bit attempt count.
func ValidateAttempts(attempts int) error {
	if attempts < 1 || attempts > math.MaxInt32 {
		return fmt.Errorf("%w: got %d", ErrInvalidAttempts, attempts)
	}
	return nil
}

// SplitCommand splits a command on runs of whitespace, preserving token order.
func SplitCommand(command string) []string {
	return strings.Fields(command)
}

// SanitizeExperimentID drops every rune that is not a letter or a number.
func SanitizeExperimentID(experimentID string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return -1
	}, experimentID)
}

// JobName returns "<commandType>_<sanitized experiment>_<8 hex chars>".
// The suffix makes collisions unlikely but not impossible.
func JobName(commandType, experimentID string) string {
	return fmt.Sprintf("%s_%s_%s", commandType, SanitizeExperimentID(experimentID), randomSuffix())
}

// randomSuffix returns the first group of a random UUID.
func randomSuffix() string {
	id := uuid.NewString()
	return id[:strings.IndexByte(id, '-')]
}
