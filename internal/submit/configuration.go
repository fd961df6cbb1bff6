package submit

import (
	"strings"

	"github.com/recbole-tools/recsub/internal/recbole"
)

const (
	configurationPartitionKeyConstant       = "partition"
	configurationAccountKeyConstant         = "account"
	configurationContainerImageKeyConstant  = "container_image"
	configurationOutputDirectoryKeyConstant = "output_directory"
	configurationTimeLimitKeyConstant       = "time_limit"
	configurationRecboleConfigKeyConstant   = "recbole_config"
	configurationEvalConfigKeyConstant      = "recbole_eval_config"
	configurationSteamOverlayKeyConstant    = "recbole_steam_overlay"
	configurationEntrypointKeyConstant      = "entrypoint"

	defaultContainerImageConstant  = "recbole.sif"
	defaultOutputDirectoryConstant = "outputs"
	defaultEntrypointConstant      = "python main.py"
	configurationKeySeparator      = "."
)

// CommandConfiguration captures configuration values for the submit command.
type CommandConfiguration struct {
	Partition           string `mapstructure:"partition"`
	Account             string `mapstructure:"account"`
	ContainerImage      string `mapstructure:"container_image"`
	OutputDirectory     string `mapstructure:"output_directory"`
	TimeLimit           string `mapstructure:"time_limit"`
	RecboleConfig       string `mapstructure:"recbole_config"`
	RecboleEvalConfig   string `mapstructure:"recbole_eval_config"`
	RecboleSteamOverlay string `mapstructure:"recbole_steam_overlay"`
	Entrypoint          string `mapstructure:"entrypoint"`
}

// DefaultCommandConfiguration provides baseline configuration values for job submission.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Partition:           "",
		Account:             "",
		ContainerImage:      defaultContainerImageConstant,
		OutputDirectory:     defaultOutputDirectoryConstant,
		TimeLimit:           "",
		RecboleConfig:       recbole.DefaultConfigFilePath,
		RecboleEvalConfig:   recbole.DefaultEvalConfigFilePath,
		RecboleSteamOverlay: recbole.DefaultSteamOverlayFilePath,
		Entrypoint:          defaultEntrypointConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the submit command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + configurationPartitionKeyConstant:       defaults.Partition,
		rootKey + configurationKeySeparator + configurationAccountKeyConstant:         defaults.Account,
		rootKey + configurationKeySeparator + configurationContainerImageKeyConstant:  defaults.ContainerImage,
		rootKey + configurationKeySeparator + configurationOutputDirectoryKeyConstant: defaults.OutputDirectory,
		rootKey + configurationKeySeparator + configurationTimeLimitKeyConstant:       defaults.TimeLimit,
		rootKey + configurationKeySeparator + configurationRecboleConfigKeyConstant:   defaults.RecboleConfig,
		rootKey + configurationKeySeparator + configurationEvalConfigKeyConstant:      defaults.RecboleEvalConfig,
		rootKey + configurationKeySeparator + configurationSteamOverlayKeyConstant:    defaults.RecboleSteamOverlay,
		rootKey + configurationKeySeparator + configurationEntrypointKeyConstant:      defaults.Entrypoint,
	}
}

// Sanitize trims configuration values and restores defaults for empty required fields.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Partition = strings.TrimSpace(configuration.Partition)
	sanitized.Account = strings.TrimSpace(configuration.Account)
	sanitized.ContainerImage = strings.TrimSpace(configuration.ContainerImage)
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)
	sanitized.TimeLimit = strings.TrimSpace(configuration.TimeLimit)
	sanitized.RecboleConfig = strings.TrimSpace(configuration.RecboleConfig)
	sanitized.RecboleEvalConfig = strings.TrimSpace(configuration.RecboleEvalConfig)
	sanitized.RecboleSteamOverlay = strings.TrimSpace(configuration.RecboleSteamOverlay)
	sanitized.Entrypoint = strings.TrimSpace(configuration.Entrypoint)

	if len(sanitized.ContainerImage) == 0 {
		sanitized.ContainerImage = defaultContainerImageConstant
	}
	if len(sanitized.OutputDirectory) == 0 {
		sanitized.OutputDirectory = defaultOutputDirectoryConstant
	}
	if len(sanitized.RecboleConfig) == 0 {
		sanitized.RecboleConfig = recbole.DefaultConfigFilePath
	}
	if len(sanitized.RecboleEvalConfig) == 0 {
		sanitized.RecboleEvalConfig = recbole.DefaultEvalConfigFilePath
	}
	if len(sanitized.RecboleSteamOverlay) == 0 {
		sanitized.RecboleSteamOverlay = recbole.DefaultSteamOverlayFilePath
	}
	if len(sanitized.Entrypoint) == 0 {
		sanitized.Entrypoint = defaultEntrypointConstant
	}

	return sanitized
}

// ConfigFileSelection converts the configured paths into a recbole selection.
func (configuration CommandConfiguration) ConfigFileSelection() recbole.ConfigFileSelection {
	return recbole.ConfigFileSelection{
		ConfigFilePath:       configuration.RecboleConfig,
		EvalConfigFilePath:   configuration.RecboleEvalConfig,
		SteamOverlayFilePath: configuration.RecboleSteamOverlay,
	}
}
