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

package run

import (
	"context"
	"fmt"

	"batch-runner/pkg/config"
	"batch-runner/pkg/logging"
	"batch-runner/pkg/orchestrator"
	"batch-runner/pkg/run/batchrequest"

	"github.com/spf13/afero"
)

// ExecutionEnvironment is reported by runners that submit to AWS Batch.
const ExecutionEnvironment = "Batch"

// RunOptions holds the runner settings that are not part of the batch configuration.
type RunOptions struct {
	// OutputRequest, if set, saves the rendered request here instead of submitting it.
	OutputRequest string
	// Fs receives OutputRequest. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Runner submits commands with a batch configuration resolved at construction.
type Runner struct {
	cfg  config.Batch
	orch orchestrator.Orchestrator
	opts RunOptions
}

// NewRunner resolves cfg once and returns a runner submitting through orch.
func NewRunner(cfg config.Batch, orch orchestrator.Orchestrator, opts RunOptions) (*Runner, error) {
	if err := orchestrator.ValidateAttempts(cfg.Attempts); err != nil {
		return nil, &orchestrator.ConfigurationError{Key: config.Section + "." + config.KeyAttempts, Err: err}
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	return &Runner{cfg: config.Resolve(cfg), orch: orch, opts: opts}, nil
}

// Config returns the resolved configuration.
func (r *Runner) Config() config.Batch {
	return r.cfg
}

// ExecutionEnvironment names where submitted commands run.
func (r *Runner) ExecutionEnvironment() string {
	return ExecutionEnvironment
}

// Submit sends command to the configured queue and job definition. A nil arraySize
// submits a plain job. In dry-run mode the returned handle carries only the job name.
func (r *Runner) Submit(
	ctx context.Context,
	commandType string,
	experimentID string,
	command string,
	parentJobIDs []string,
	arraySize *int32,
) (orchestrator.JobHandle, error) {
	opts := []orchestrator.SubmitOption{
		orchestrator.WithAttempts(r.cfg.Attempts),
		orchestrator.WithParentJobIDs(parentJobIDs...),
	}
	if arraySize != nil {
		opts = append(opts, orchestrator.WithArraySize(*arraySize))
	}

	req, err := orchestrator.NewJobRequest(commandType, experimentID, r.cfg.JobQueue, r.cfg.JobDefinition, command, opts...)
	if err != nil {
		return orchestrator.JobHandle{}, err
	}

	if r.opts.OutputRequest != "" {
		return r.saveRequest(req)
	}

	logging.WithField("environment", ExecutionEnvironment).Debugf("Submitting %s command for experiment %s", commandType, experimentID)
	return r.orch.SubmitJob(ctx, req)
}

func (r *Runner) saveRequest(req orchestrator.JobRequest) (orchestrator.JobHandle, error) {
	content, err := batchrequest.Render(req)
	if err != nil {
		return orchestrator.JobHandle{}, fmt.Errorf("failed to render submit request: %w", err)
	}

	logging.Info("Saving submit request to %s", r.opts.OutputRequest)
	if err := afero.WriteFile(r.opts.Fs, r.opts.OutputRequest, []byte(content), 0644); err != nil {
		return orchestrator.JobHandle{}, fmt.Errorf("failed to write submit request to file %s: %w", r.opts.OutputRequest, err)
	}
	logging.Warn("Submit request for %s saved; nothing was submitted.", req.JobName)
	return orchestrator.JobHandle{JobName: req.JobName}, nil
}
