package cli

import _ "embed"

//go:embed default_config.yaml
var defaultConfigurationContent []byte

// EmbeddedDefaultConfiguration exposes the embedded defaults and their format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return defaultConfigurationContent, configurationTypeConstant
}
