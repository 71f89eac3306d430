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

// Package cmd defines the batch-runner command line.
package cmd

import (
	"batch-runner/pkg/logging"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	noColor    bool

	// appFs is where config files are read and dry-run requests written.
	appFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "batch-runner",
	Short: "Submits containerized commands to AWS Batch.",
	Long: `batch-runner submits experiment commands to an AWS Batch job queue,
naming each job after its command type and experiment and chaining it
to the jobs it depends on.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.ConfigureColor(noColor)
		return logging.SetLevel(logLevel)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file with an [AWS_BATCH] section (INI, YAML or JSON).")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output.")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Fatal("%v", err)
	}
}
