package provision

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recbole-tools/recsub/internal/execshell"
	"github.com/recbole-tools/recsub/internal/ui"
)

const (
	commandUseConstant                    = "provision"
	commandShortDescriptionConstant       = "Provision the Conda environment used by the training jobs"
	commandLongDescriptionConstant        = "provision creates the Conda environment and installs the pinned pip packages RecBole requires."
	commandExecutionErrorTemplateConstant = "environment provisioning failed: %w"
	unexpectedArgumentsMessageConstant    = "provision does not accept positional arguments"

	flagEnvironmentNameConstant          = "environment"
	flagEnvironmentShorthandConstant     = "n"
	flagEnvironmentDescriptionConstant   = "Name of the Conda environment to create"
	flagPythonVersionNameConstant        = "python"
	flagPythonVersionShorthandConstant   = "p"
	flagPythonVersionDescriptionConstant = "Python version for the Conda environment"
	flagPackagesNameConstant             = "packages"
	flagPackagesDescriptionConstant      = "Pip package pins to install, replacing the configured list"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the provision command configuration.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for environment provisioning.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Executor                     CondaCommandExecutor
}

// Build constructs the provision command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().StringP(flagEnvironmentNameConstant, flagEnvironmentShorthandConstant, "", flagEnvironmentDescriptionConstant)
	command.Flags().StringP(flagPythonVersionNameConstant, flagPythonVersionShorthandConstant, "", flagPythonVersionDescriptionConstant)
	command.Flags().StringSlice(flagPackagesNameConstant, nil, flagPackagesDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration()
	if environmentName, _ := command.Flags().GetString(flagEnvironmentNameConstant); len(environmentName) > 0 {
		configuration.EnvironmentName = environmentName
	}
	if pythonVersion, _ := command.Flags().GetString(flagPythonVersionNameConstant); len(pythonVersion) > 0 {
		configuration.PythonVersion = pythonVersion
	}
	if packagePins, _ := command.Flags().GetStringSlice(flagPackagesNameConstant); len(packagePins) > 0 {
		configuration.Packages = packagePins
	}

	logger := builder.resolveLogger()
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(logger, executor, configuration)
	if serviceError != nil {
		return serviceError
	}

	if provisionError := service.Provision(command.Context()); provisionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, provisionError)
	}

	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CondaCommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()

	var shellExecutor *execshell.ShellExecutor
	var executorError error
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		shellExecutor, executorError = execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	} else {
		shellExecutor, executorError = execshell.NewShellExecutor(logger, commandRunner)
	}
	if executorError != nil {
		return nil, executorError
	}

	return shellExecutor, nil
}
