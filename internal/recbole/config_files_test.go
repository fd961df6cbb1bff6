package recbole_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recbole-tools/recsub/internal/recbole"
)

func TestBuildConfigFileList(testInstance *testing.T) {
	testCases := []struct {
		name          string
		datasetName   string
		evaluate      bool
		expectedPaths []string
	}{
		{
			name:          "training_uses_base_configuration",
			datasetName:   "ml-1m",
			evaluate:      false,
			expectedPaths: []string{recbole.DefaultConfigFilePath},
		},
		{
			name:          "evaluation_swaps_base_configuration",
			datasetName:   "ml-1m",
			evaluate:      true,
			expectedPaths: []string{recbole.DefaultEvalConfigFilePath},
		},
		{
			name:          "steam_dataset_appends_overlay",
			datasetName:   "steam-merged",
			evaluate:      false,
			expectedPaths: []string{recbole.DefaultConfigFilePath, recbole.DefaultSteamOverlayFilePath},
		},
		{
			name:          "steam_evaluation_keeps_overlay_last",
			datasetName:   "steam-merged",
			evaluate:      true,
			expectedPaths: []string{recbole.DefaultEvalConfigFilePath, recbole.DefaultSteamOverlayFilePath},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configFilePaths := recbole.BuildConfigFileList(recbole.DefaultConfigFileSelection(), testCase.datasetName, testCase.evaluate)
			require.Equal(testInstance, testCase.expectedPaths, configFilePaths)
		})
	}
}

func TestBuildConfigFileListHonorsCustomSelection(testInstance *testing.T) {
	customSelection := recbole.ConfigFileSelection{
		ConfigFilePath:       "overrides/train.yaml",
		EvalConfigFilePath:   "overrides/eval.yaml",
		SteamOverlayFilePath: "overrides/steam.yaml",
	}

	configFilePaths := recbole.BuildConfigFileList(customSelection, "steam-merged", true)
	require.Equal(testInstance, []string{"overrides/eval.yaml", "overrides/steam.yaml"}, configFilePaths)
}
