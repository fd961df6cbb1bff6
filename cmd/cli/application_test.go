package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/recbole-tools/recsub/cmd/cli"
	"github.com/recbole-tools/recsub/internal/provision"
	"github.com/recbole-tools/recsub/internal/rerank"
	"github.com/recbole-tools/recsub/internal/submit"
)

var requiredCommandNames = []string{
	"submit",
	"provision",
	"rerank",
	"queue",
	"cancel",
}

func TestApplicationRegistersCommands(testInstance *testing.T) {
	application := cli.NewApplication()
	registeredNames := map[string]bool{}
	for _, registeredCommand := range application.RootCommand().Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	for _, requiredName := range requiredCommandNames {
		require.Truef(testInstance, registeredNames[requiredName], "command %s not registered", requiredName)
	}
}

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)

	readError := viperInstance.ReadConfig(bytes.NewReader(configurationData))
	require.NoError(testingInstance, readError)

	var configuration cli.ApplicationConfiguration
	unmarshalError := viperInstance.Unmarshal(&configuration)
	require.NoError(testingInstance, unmarshalError)

	return configuration
}

func decodeToolSettings(testingInstance testing.TB, settings map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: target})
	require.NoError(testingInstance, decoderError)

	decodeError := decoder.Decode(settings)
	require.NoError(testingInstance, decodeError)
}

func TestEmbeddedDefaultsMatchCommandDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)

	require.Equal(testInstance, submit.DefaultCommandConfiguration(), configuration.Tools.Submit)
	require.Equal(testInstance, provision.DefaultCommandConfiguration(), configuration.Tools.Provision)
	require.Equal(testInstance, rerank.DefaultCommandConfiguration(), configuration.Tools.Rerank)
}

func TestEmbeddedSubmitSettingsDecodeWithMapstructure(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	submitSettings := viperInstance.GetStringMap("tools.submit")
	require.NotEmpty(testInstance, submitSettings)

	var submitConfiguration submit.CommandConfiguration
	decodeToolSettings(testInstance, submitSettings, &submitConfiguration)
	require.Equal(testInstance, "recbole.sif", submitConfiguration.ContainerImage)
	require.Equal(testInstance, "outputs", submitConfiguration.OutputDirectory)
	require.Equal(testInstance, "python main.py", submitConfiguration.Entrypoint)
}
