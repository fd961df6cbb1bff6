package recbole

import "strings"

const (
	// DefaultConfigFilePath is the base training configuration shipped with the repository.
	DefaultConfigFilePath = "configs/config.yaml"
	// DefaultEvalConfigFilePath replaces the base configuration for evaluation-only runs.
	DefaultEvalConfigFilePath = "configs/eval_config.yaml"
	// DefaultSteamOverlayFilePath is appended for the steam-merged dataset.
	DefaultSteamOverlayFilePath = "configs/config_steam.yaml"
)

// ConfigFileSelection names the configuration files available to a run.
type ConfigFileSelection struct {
	ConfigFilePath       string
	EvalConfigFilePath   string
	SteamOverlayFilePath string
}

// DefaultConfigFileSelection returns the repository-shipped configuration files.
func DefaultConfigFileSelection() ConfigFileSelection {
	return ConfigFileSelection{
		ConfigFilePath:       DefaultConfigFilePath,
		EvalConfigFilePath:   DefaultEvalConfigFilePath,
		SteamOverlayFilePath: DefaultSteamOverlayFilePath,
	}
}

// BuildConfigFileList assembles the ordered configuration file list handed to the framework.
//
// Evaluation runs start from the evaluation configuration instead of the base
// one, and the steam-merged dataset always receives its overlay last.
func BuildConfigFileList(selection ConfigFileSelection, datasetName string, evaluate bool) []string {
	configFilePaths := []string{selection.ConfigFilePath}
	if evaluate {
		configFilePaths = []string{selection.EvalConfigFilePath}
	}

	if strings.TrimSpace(datasetName) == SteamMergedDatasetName {
		configFilePaths = append(configFilePaths, selection.SteamOverlayFilePath)
	}

	return configFilePaths
}
