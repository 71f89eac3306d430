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
	"testing"

	"batch-runner/pkg/orchestrator"

	"github.com/google/go-cmp/cmp"
	"sigs.k8s.io/yaml"
)

func int32Ptr(v int32) *int32 { return &v }

// parseDocument renders req and parses it back into a generic map.
func parseDocument(t *testing.T, req orchestrator.JobRequest) map[string]interface{} {
	t.Helper()

	rendered, err := Render(req)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var result map[string]interface{}
	if err := yaml.Unmarshal([]byte(rendered), &result); err != nil {
		t.Fatalf("Failed to unmarshal rendered YAML: %v\n%s", err, rendered)
	}
	return result
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		req  orchestrator.JobRequest
		want map[string]interface{}
	}{
		{
			name: "Chained chip job",
			req: orchestrator.JobRequest{
				JobName:           "chip_exp1_0a1b2c3d",
				QueueName:         "q",
				JobDefinitionName: "d",
				CommandTokens:     []string{"python", "run.py", "--x", "1"},
				MaxAttempts:       3,
				ParentJobIDs:      []string{"a", "b"},
			},
			want: map[string]interface{}{
				"jobName":            "chip_exp1_0a1b2c3d",
				"jobQueue":           "q",
				"jobDefinition":      "d",
				"containerOverrides": map[string]interface{}{"command": []interface{}{"python", "run.py", "--x", "1"}},
				"retryStrategy":      map[string]interface{}{"attempts": float64(3)},
				"dependsOn": []interface{}{
					map[string]interface{}{"jobId": "a"},
					map[string]interface{}{"jobId": "b"},
				},
			},
		},
		{
			name: "Array job without parents",
			req: orchestrator.JobRequest{
				JobName:           "predict_e_deadbeef",
				QueueName:         "raster-vision-cpu",
				JobDefinitionName: "raster-vision-cpu",
				CommandTokens:     []string{"rv", "predict"},
				MaxAttempts:       1,
				ArraySize:         int32Ptr(5),
			},
			want: map[string]interface{}{
				"jobName":            "predict_e_deadbeef",
				"jobQueue":           "raster-vision-cpu",
				"jobDefinition":      "raster-vision-cpu",
				"containerOverrides": map[string]interface{}{"command": []interface{}{"rv", "predict"}},
				"retryStrategy":      map[string]interface{}{"attempts": float64(1)},
				"dependsOn":          []interface{}{},
				"arrayProperties":    map[string]interface{}{"size": float64(5)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDocument(t, tt.req)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderOmitsArrayPropertiesWhenUnset(t *testing.T) {
	got := parseDocument(t, orchestrator.JobRequest{
		JobName:       "train_e_00000000",
		CommandTokens: []string{"ls"},
		MaxAttempts:   1,
	})
	if _, ok := got["arrayProperties"]; ok {
		t.Errorf("arrayProperties present for a plain job: %v", got["arrayProperties"])
	}
}
