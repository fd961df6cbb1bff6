package submit_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/recbole-tools/recsub/internal/submit"
	"github.com/recbole-tools/recsub/internal/utils"
)

func buildTestCommand(testInstance *testing.T, schedulerClient submit.SchedulerClient) (*bytes.Buffer, *bytes.Buffer, func(arguments []string) error) {
	builder := submit.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: submit.DefaultCommandConfiguration,
		SchedulerClient:       schedulerClient,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(errorBuffer)

	return outputBuffer, errorBuffer, func(arguments []string) error {
		command.SetArgs(arguments)
		return command.Execute()
	}
}

func TestCommandSubmitsJob(testInstance *testing.T) {
	schedulerClient := &stubSchedulerClient{}
	outputBuffer, _, execute := buildTestCommand(testInstance, schedulerClient)

	executionError := execute([]string{"-d", "ml-100k", "-m", "BPR", "-g", "2"})
	require.NoError(testInstance, executionError)
	require.Len(testInstance, schedulerClient.submittedScripts, 1)
	require.Contains(testInstance, outputBuffer.String(), "Submitted BPR_ml-100k as job 1")
}

func TestCommandForwardsRetrainFlag(testInstance *testing.T) {
	schedulerClient := &stubSchedulerClient{}
	_, _, execute := buildTestCommand(testInstance, schedulerClient)

	executionError := execute([]string{"-d", "ml-100k", "-m", "BPR", "--retrain"})
	require.NoError(testInstance, executionError)
	require.Len(testInstance, schedulerClient.submittedScripts, 1)
	require.Contains(testInstance, schedulerClient.submittedScripts[0], "python main.py -d ml-100k -m BPR -r")
}

func TestCommandReportsConfigurationSource(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	schedulerClient := &stubSchedulerClient{}
	builder := submit.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.New(observerCore) },
		ConfigurationProvider: submit.DefaultCommandConfiguration,
		SchedulerClient:       schedulerClient,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	contextAccessor := utils.NewCommandContextAccessor()
	command.SetContext(contextAccessor.WithConfigurationFilePath(context.Background(), "/etc/recsub/config.yaml"))

	command.SetArgs([]string{"-d", "ml-100k", "-m", "BPR"})
	require.NoError(testInstance, command.Execute())

	debugEntries := observedLogs.FilterMessage("using configuration file").All()
	require.Len(testInstance, debugEntries, 1)
	require.Equal(testInstance, "/etc/recsub/config.yaml", debugEntries[0].ContextMap()["config_file"])
}

func TestCommandRejectsUnknownFlag(testInstance *testing.T) {
	schedulerClient := &stubSchedulerClient{}
	_, _, execute := buildTestCommand(testInstance, schedulerClient)

	executionError := execute([]string{"--frobnicate"})
	require.Error(testInstance, executionError)
	require.Empty(testInstance, schedulerClient.submittedScripts)
}

func TestCommandRejectsPositionalArguments(testInstance *testing.T) {
	schedulerClient := &stubSchedulerClient{}
	_, _, execute := buildTestCommand(testInstance, schedulerClient)

	executionError := execute([]string{"-d", "ml-100k", "-m", "BPR", "stray"})
	require.Error(testInstance, executionError)
	require.Empty(testInstance, schedulerClient.submittedScripts)
}

func TestCommandRejectsInvalidSelection(testInstance *testing.T) {
	schedulerClient := &stubSchedulerClient{}
	_, _, execute := buildTestCommand(testInstance, schedulerClient)

	executionError := execute([]string{"-d", "netflix-prize", "-m", "BPR"})
	require.Error(testInstance, executionError)
	require.Empty(testInstance, schedulerClient.submittedScripts)
}

func TestCommandShowsHelp(testInstance *testing.T) {
	schedulerClient := &stubSchedulerClient{}
	outputBuffer, _, execute := buildTestCommand(testInstance, schedulerClient)

	executionError := execute([]string{"--help"})
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, outputBuffer.String(), "submit")
	require.Contains(testInstance, outputBuffer.String(), "--dataset")
	require.Contains(testInstance, outputBuffer.String(), "ml-100k")
	require.Contains(testInstance, outputBuffer.String(), "LightGCNEntropy")
	require.Contains(testInstance, outputBuffer.String(), "--retrain")
	require.Empty(testInstance, schedulerClient.submittedScripts)
}
