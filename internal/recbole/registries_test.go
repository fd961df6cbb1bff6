package recbole_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recbole-tools/recsub/internal/recbole"
)

const (
	knownDatasetNameConstant   = "ml-100k"
	unknownDatasetNameConstant = "netflix-prize"
	knownModelNameConstant     = "BPR"
	unknownModelNameConstant   = "SASRec"
)

func TestValidateDataset(testInstance *testing.T) {
	testCases := []struct {
		name        string
		datasetName string
		expectError bool
	}{
		{
			name:        "accepts_supported_dataset",
			datasetName: knownDatasetNameConstant,
			expectError: false,
		},
		{
			name:        "rejects_unsupported_dataset",
			datasetName: unknownDatasetNameConstant,
			expectError: true,
		},
		{
			name:        "rejects_empty_dataset",
			datasetName: "",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			validationError := recbole.ValidateDataset(testCase.datasetName)
			if testCase.expectError {
				require.Error(testInstance, validationError)
				require.Contains(testInstance, validationError.Error(), knownDatasetNameConstant)
				return
			}
			require.NoError(testInstance, validationError)
		})
	}
}

func TestValidateModel(testInstance *testing.T) {
	testCases := []struct {
		name        string
		modelName   string
		expectError bool
	}{
		{
			name:        "accepts_supported_model",
			modelName:   knownModelNameConstant,
			expectError: false,
		},
		{
			name:        "accepts_entropy_variant",
			modelName:   "LightGCNEntropy",
			expectError: false,
		},
		{
			name:        "rejects_unsupported_model",
			modelName:   unknownModelNameConstant,
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			validationError := recbole.ValidateModel(testCase.modelName)
			if testCase.expectError {
				require.Error(testInstance, validationError)
				require.Contains(testInstance, validationError.Error(), knownModelNameConstant)
				return
			}
			require.NoError(testInstance, validationError)
		})
	}
}

func TestIsEntropyModel(testInstance *testing.T) {
	require.True(testInstance, recbole.IsEntropyModel("BPREntropy"))
	require.True(testInstance, recbole.IsEntropyModel("NGCFEntropy"))
	require.False(testInstance, recbole.IsEntropyModel(knownModelNameConstant))
	require.False(testInstance, recbole.IsEntropyModel("Random"))
}

func TestRegistryCopiesAreIndependent(testInstance *testing.T) {
	firstDatasets := recbole.SupportedDatasets()
	firstDatasets[0] = unknownDatasetNameConstant
	require.Equal(testInstance, knownDatasetNameConstant, recbole.SupportedDatasets()[0])

	firstMetrics := recbole.DefaultMetrics()
	firstMetrics[0] = "Coverage"
	require.Equal(testInstance, "Recall", recbole.DefaultMetrics()[0])
}
