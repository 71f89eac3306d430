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

package awsbatch

import (
	"context"
	"errors"
	"fmt"

	"batch-runner/pkg/logging"
	"batch-runner/pkg/orchestrator"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/batch"
	"github.com/aws/aws-sdk-go-v2/service/batch/types"
	"github.com/aws/smithy-go"
)

// submitOp names the service operation in ServiceErrors.
const submitOp = "batch.SubmitJob"

// BatchAPI is the subset of the AWS Batch client used for submissions.
// *batch.Client satisfies it.
type BatchAPI interface {
	SubmitJob(ctx context.Context, params *batch.SubmitJobInput, optFns ...func(*batch.Options)) (*batch.SubmitJobOutput, error)
}

// AWSBatchOrchestrator implements the Orchestrator interface for AWS Batch.
// It holds no per-call state and is safe for concurrent use.
type AWSBatchOrchestrator struct {
	client BatchAPI
}

// NewAWSBatchOrchestrator returns an orchestrator that submits through client.
func NewAWSBatchOrchestrator(client BatchAPI) *AWSBatchOrchestrator {
	return &AWSBatchOrchestrator{client: client}
}

// NewClient builds an AWS Batch client from the default credential chain.
// SDK-level retries are disabled so that each submission is a single call;
// retries belong to the job queue via the request's attempt count.
func NewClient(ctx context.Context, region string) (*batch.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	opts = append(opts, awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }))

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &orchestrator.ConfigurationError{Key: "aws", Err: err}
	}
	return batch.NewFromConfig(cfg), nil
}

// Submit builds a request from the given command descriptor and submits it.
// Attempts default to orchestrator.DefaultAttempts.
func (a *AWSBatchOrchestrator) Submit(
	ctx context.Context,
	commandType string,
	experimentID string,
	jobQueue string,
	jobDefinition string,
	command string,
	opts ...orchestrator.SubmitOption,
) (string, error) {
	req, err := orchestrator.NewJobRequest(commandType, experimentID, jobQueue, jobDefinition, command, opts...)
	if err != nil {
		return "", err
	}
	handle, err := a.SubmitJob(ctx, req)
	if err != nil {
		return "", err
	}
	return handle.JobID, nil
}

// SubmitJob sends req to AWS Batch with a single SubmitJob call.
func (a *AWSBatchOrchestrator) SubmitJob(ctx context.Context, req orchestrator.JobRequest) (orchestrator.JobHandle, error) {
	logging.Debug("Submitting %s job %s to queue %s with definition %s", req.CommandType, req.JobName, req.QueueName, req.JobDefinitionName)

	out, err := a.client.SubmitJob(ctx, BuildSubmitJobInput(req))
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			logging.Debug("AWS Batch rejected %s: code=%s message=%s", req.JobName, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return orchestrator.JobHandle{}, &orchestrator.ServiceError{Op: submitOp, Err: err}
	}
	if out == nil || aws.ToString(out.JobId) == "" {
		return orchestrator.JobHandle{}, &orchestrator.ServiceError{
			Op:  submitOp,
			Err: fmt.Errorf("response for job %s carried no job id", req.JobName),
		}
	}

	handle := orchestrator.JobHandle{
		JobID:   aws.ToString(out.JobId),
		JobName: req.JobName,
		JobArn:  aws.ToString(out.JobArn),
	}
	if name := aws.ToString(out.JobName); name != "" {
		handle.JobName = name
	}

	logging.Success("%s command submitted job with jobName=%s and jobId=%s", req.CommandType, handle.JobName, handle.JobID)
	return handle, nil
}

// BuildSubmitJobInput maps a request onto the AWS Batch SubmitJob parameters.
func BuildSubmitJobInput(req orchestrator.JobRequest) *batch.SubmitJobInput {
	command := make([]string, len(req.CommandTokens))
	copy(command, req.CommandTokens)

	dependsOn := make([]types.JobDependency, 0, len(req.ParentJobIDs))
	for _, id := range req.ParentJobIDs {
		dependsOn = append(dependsOn, types.JobDependency{JobId: aws.String(id)})
	}

	input := &batch.SubmitJobInput{
		JobName:       aws.String(req.JobName),
		JobQueue:      aws.String(req.QueueName),
		JobDefinition: aws.String(req.JobDefinitionName),
		ContainerOverrides: &types.ContainerOverrides{
			Command: command,
		},
		RetryStrategy: &types.RetryStrategy{
			Attempts: aws.Int32(req.MaxAttempts),
		},
		DependsOn: dependsOn,
	}
	if req.ArraySize != nil {
		input.ArrayProperties = &types.ArrayProperties{Size: aws.Int32(*req.ArraySize)}
	}
	return input
}
