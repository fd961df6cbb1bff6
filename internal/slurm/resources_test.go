package slurm_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recbole-tools/recsub/internal/slurm"
)

const (
	resourcesSubtestNameTemplateConstant = "%d_gpus"
	resourcesInvalidCaseNameConstant     = "invalid_gpu_count"
)

func TestBuildResourceRequestScalesWithGPUCount(testInstance *testing.T) {
	testCases := []struct {
		gpuCount                int
		expectedMemoryGigabytes int
		expectedCPUCount        int
		expectedGenericResource string
		expectedMemoryValue     string
	}{
		{gpuCount: 1, expectedMemoryGigabytes: 24, expectedCPUCount: 4, expectedGenericResource: "gpu:1", expectedMemoryValue: "24G"},
		{gpuCount: 2, expectedMemoryGigabytes: 48, expectedCPUCount: 8, expectedGenericResource: "gpu:2", expectedMemoryValue: "48G"},
		{gpuCount: 4, expectedMemoryGigabytes: 96, expectedCPUCount: 16, expectedGenericResource: "gpu:4", expectedMemoryValue: "96G"},
	}

	for _, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(resourcesSubtestNameTemplateConstant, testCase.gpuCount), func(testInstance *testing.T) {
			resourceRequest, buildError := slurm.BuildResourceRequest(testCase.gpuCount)
			require.NoError(testInstance, buildError)
			require.Equal(testInstance, testCase.gpuCount, resourceRequest.GPUCount)
			require.Equal(testInstance, testCase.expectedMemoryGigabytes, resourceRequest.MemoryGigabytes)
			require.Equal(testInstance, testCase.expectedCPUCount, resourceRequest.CPUCount)
			require.Equal(testInstance, testCase.expectedGenericResource, resourceRequest.GenericResourceValue())
			require.Equal(testInstance, testCase.expectedMemoryValue, resourceRequest.MemoryValue())
		})
	}
}

func TestBuildResourceRequestRejectsNonPositiveCounts(testInstance *testing.T) {
	testCases := []int{0, -1, -4}

	for _, gpuCount := range testCases {
		testInstance.Run(fmt.Sprintf(resourcesSubtestNameTemplateConstant, gpuCount), func(testInstance *testing.T) {
			_, buildError := slurm.BuildResourceRequest(gpuCount)
			require.Error(testInstance, buildError)
		})
	}
}
