package slurm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recbole-tools/recsub/internal/slurm"
)

const (
	scriptTestJobNameConstant    = "BPR_ml-100k"
	scriptTestOutputPathConstant = "slurm_output/BPR_ml-100k_%j.out"
	scriptTestPayloadConstant    = "singularity exec --nv containers/recbole.sif python main.py -d ml-100k -m BPR"
	scriptTestPartitionConstant  = "gpu"
	scriptTestNodeConstant       = "gpu-node-07"
	scriptTestTimeLimitConstant  = "72:00:00"
)

func TestRenderBatchScriptIncludesDirectivesInOrder(testInstance *testing.T) {
	resourceRequest, buildError := slurm.BuildResourceRequest(2)
	require.NoError(testInstance, buildError)

	specification := slurm.BatchScriptSpecification{
		JobName:        scriptTestJobNameConstant,
		OutputPath:     scriptTestOutputPathConstant,
		Partition:      scriptTestPartitionConstant,
		NodeList:       scriptTestNodeConstant,
		TimeLimit:      scriptTestTimeLimitConstant,
		Resources:      resourceRequest,
		PayloadCommand: scriptTestPayloadConstant,
	}

	renderedScript, renderError := slurm.RenderBatchScript(specification)
	require.NoError(testInstance, renderError)

	scriptLines := strings.Split(renderedScript, "\n")
	require.Equal(testInstance, "#!/bin/bash", scriptLines[0])
	require.Equal(testInstance, "#SBATCH --job-name="+scriptTestJobNameConstant, scriptLines[1])
	require.Equal(testInstance, "#SBATCH --output="+scriptTestOutputPathConstant, scriptLines[2])
	require.Equal(testInstance, "#SBATCH --gres=gpu:2", scriptLines[3])
	require.Equal(testInstance, "#SBATCH --mem=48G", scriptLines[4])
	require.Equal(testInstance, "#SBATCH --cpus-per-task=8", scriptLines[5])
	require.Contains(testInstance, renderedScript, "#SBATCH --partition="+scriptTestPartitionConstant)
	require.Contains(testInstance, renderedScript, "#SBATCH --nodelist="+scriptTestNodeConstant)
	require.Contains(testInstance, renderedScript, "#SBATCH --time="+scriptTestTimeLimitConstant)
	require.NotContains(testInstance, renderedScript, "#SBATCH --account=")
	require.Contains(testInstance, renderedScript, "\n\n"+scriptTestPayloadConstant+"\n")
}

func TestRenderBatchScriptValidatesRequiredFields(testInstance *testing.T) {
	resourceRequest, buildError := slurm.BuildResourceRequest(1)
	require.NoError(testInstance, buildError)

	validSpecification := slurm.BatchScriptSpecification{
		JobName:        scriptTestJobNameConstant,
		OutputPath:     scriptTestOutputPathConstant,
		Resources:      resourceRequest,
		PayloadCommand: scriptTestPayloadConstant,
	}

	testCases := []struct {
		name   string
		mutate func(specification slurm.BatchScriptSpecification) slurm.BatchScriptSpecification
	}{
		{
			name: "missing_job_name",
			mutate: func(specification slurm.BatchScriptSpecification) slurm.BatchScriptSpecification {
				specification.JobName = " "
				return specification
			},
		},
		{
			name: "missing_output_path",
			mutate: func(specification slurm.BatchScriptSpecification) slurm.BatchScriptSpecification {
				specification.OutputPath = ""
				return specification
			},
		},
		{
			name: "missing_payload",
			mutate: func(specification slurm.BatchScriptSpecification) slurm.BatchScriptSpecification {
				specification.PayloadCommand = ""
				return specification
			},
		},
		{
			name: "missing_resources",
			mutate: func(specification slurm.BatchScriptSpecification) slurm.BatchScriptSpecification {
				specification.Resources = slurm.ResourceRequest{}
				return specification
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, renderError := slurm.RenderBatchScript(testCase.mutate(validSpecification))
			require.Error(testInstance, renderError)
		})
	}
}
