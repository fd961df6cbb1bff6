package provision

import "strings"

const (
	configurationEnvironmentKeyConstant   = "environment"
	configurationPythonVersionKeyConstant = "python_version"
	configurationPackagesKeyConstant      = "packages"
	configurationKeySeparator             = "."

	defaultEnvironmentNameConstant = "recbole"
	defaultPythonVersionConstant   = "3.8"
)

var defaultPackagePins = []string{
	"recbole==1.1.1",
	"numpy==1.23.5",
	"pandas==1.5.3",
	"torch==2.0.1",
	"scikit-learn==1.2.2",
}

// CommandConfiguration captures configuration values for environment provisioning.
type CommandConfiguration struct {
	EnvironmentName string   `mapstructure:"environment"`
	PythonVersion   string   `mapstructure:"python_version"`
	Packages        []string `mapstructure:"packages"`
}

// DefaultCommandConfiguration provides baseline provisioning values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		EnvironmentName: defaultEnvironmentNameConstant,
		PythonVersion:   defaultPythonVersionConstant,
		Packages:        append([]string{}, defaultPackagePins...),
	}
}

// DefaultConfigurationValues produces Viper defaults for the provision command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + configurationEnvironmentKeyConstant:   defaults.EnvironmentName,
		rootKey + configurationKeySeparator + configurationPythonVersionKeyConstant: defaults.PythonVersion,
		rootKey + configurationKeySeparator + configurationPackagesKeyConstant:      defaults.Packages,
	}
}

// Sanitize trims configuration values and restores defaults for empty fields.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.EnvironmentName = strings.TrimSpace(configuration.EnvironmentName)
	if len(sanitized.EnvironmentName) == 0 {
		sanitized.EnvironmentName = defaultEnvironmentNameConstant
	}

	sanitized.PythonVersion = strings.TrimSpace(configuration.PythonVersion)
	if len(sanitized.PythonVersion) == 0 {
		sanitized.PythonVersion = defaultPythonVersionConstant
	}

	sanitized.Packages = sanitizePackagePins(configuration.Packages)
	if len(sanitized.Packages) == 0 {
		sanitized.Packages = append([]string{}, defaultPackagePins...)
	}

	return sanitized
}

func sanitizePackagePins(rawPins []string) []string {
	sanitizedPins := make([]string, 0, len(rawPins))
	for _, rawPin := range rawPins {
		trimmedPin := strings.TrimSpace(rawPin)
		if len(trimmedPin) == 0 {
			continue
		}
		sanitizedPins = append(sanitizedPins, trimmedPin)
	}
	return sanitizedPins
}
