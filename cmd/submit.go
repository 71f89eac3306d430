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

package cmd

import (
	"context"
	"fmt"

	"batch-runner/pkg/config"
	"batch-runner/pkg/logging"
	"batch-runner/pkg/orchestrator/awsbatch"
	"batch-runner/pkg/run"

	"github.com/spf13/cobra"
)

var (
	commandType   string
	experimentID  string
	commandToRun  string
	parentJobIDs  []string
	arraySize     int32
	outputRequest string

	// newBatchClient is replaced in tests.
	newBatchClient = func(ctx context.Context, region string) (awsbatch.BatchAPI, error) {
		return awsbatch.NewClient(ctx, region)
	}
)

// Flags that override the [AWS_BATCH] configuration section.
var configFlags = map[string]string{
	"gpu":            config.KeyGPU,
	"attempts":       config.KeyAttempts,
	"job-queue":      config.KeyJobQueue,
	"job-definition": config.KeyJobDefinition,
	"region":         config.KeyRegion,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&commandType, "command-type", "t", "", "Type of command being run (e.g., 'chip', 'train'). Required.")
	submitCmd.Flags().StringVarP(&experimentID, "experiment-id", "x", "", "ID of the experiment the command belongs to. Required.")
	submitCmd.Flags().StringVarP(&commandToRun, "command", "e", "", "Command to run inside the container (e.g., 'python run.py --x 1'). Split on whitespace. Required.")
	submitCmd.Flags().StringArrayVarP(&parentJobIDs, "parent-job-id", "p", nil, "ID of a job this job depends on. Repeat for several parents.")
	submitCmd.Flags().Int32Var(&arraySize, "array-size", 0, "Submit an array job of this size.")
	submitCmd.Flags().StringVarP(&outputRequest, "output-request", "o", "", "Path to save the SubmitJob request instead of submitting it.")

	// Configuration overrides. Defaults live in pkg/config, so these only apply when set.
	submitCmd.Flags().Bool("gpu", true, "Use the GPU queue and job definition defaults.")
	submitCmd.Flags().Int("attempts", 1, "Number of attempts AWS Batch makes before failing the job.")
	submitCmd.Flags().String("job-queue", "", "AWS Batch job queue. Derived from --gpu if empty.")
	submitCmd.Flags().String("job-definition", "", "AWS Batch job definition. Derived from --gpu if empty.")
	submitCmd.Flags().String("region", "", "AWS region. Uses the SDK default chain if empty.")

	_ = submitCmd.MarkFlagRequired("command-type")
	_ = submitCmd.MarkFlagRequired("experiment-id")
	_ = submitCmd.MarkFlagRequired("command")
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submits a command to an AWS Batch job queue.",
	Long: `The 'submit' command sends a single containerized command to AWS Batch.

The job is named <command-type>_<experiment-id>_<random suffix>, depends on
every --parent-job-id given, and is retried by AWS Batch up to --attempts
times. Queue and job definition come from flags, AWS_BATCH_* environment
variables or the [AWS_BATCH] section of --config, falling back to the GPU or
CPU defaults. The job ID is printed on success.`,
	Args:         cobra.NoArgs,
	Run:          runSubmitCmd,
	SilenceUsage: true,
}

func runSubmitCmd(cmd *cobra.Command, args []string) {
	if err := runSubmit(cmd); err != nil {
		logging.Fatal("batch-runner submit failed: %v", err)
	}
}

func runSubmit(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	batchCfg, err := loadBatchConfig(cmd)
	if err != nil {
		return err
	}
	logging.Debug("Resolved AWS Batch configuration: gpu=%t attempts=%d queue=%s definition=%s",
		batchCfg.GPU, batchCfg.Attempts, batchCfg.JobQueue, batchCfg.JobDefinition)

	client, err := newBatchClient(ctx, batchCfg.Region)
	if err != nil {
		return fmt.Errorf("failed to create AWS Batch client: %w", err)
	}

	runner, err := run.NewRunner(batchCfg, awsbatch.NewAWSBatchOrchestrator(client), run.RunOptions{
		OutputRequest: outputRequest,
		Fs:            appFs,
	})
	if err != nil {
		return err
	}

	var size *int32
	if cmd.Flags().Changed("array-size") {
		size = &arraySize
	}

	handle, err := runner.Submit(ctx, commandType, experimentID, commandToRun, parentJobIDs, size)
	if err != nil {
		return err
	}
	if handle.JobID != "" {
		fmt.Fprintln(cmd.OutOrStdout(), handle.JobID)
	}
	return nil
}

func loadBatchConfig(cmd *cobra.Command) (config.Batch, error) {
	loader := config.NewLoader(appFs)
	if configFile != "" {
		if err := loader.ReadFile(configFile); err != nil {
			return config.Batch{}, err
		}
	}
	for flagName, key := range configFlags {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(flagName)); err != nil {
			return config.Batch{}, fmt.Errorf("failed to bind --%s: %w", flagName, err)
		}
	}
	return loader.Load()
}
