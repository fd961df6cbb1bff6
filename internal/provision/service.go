package provision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/recbole-tools/recsub/internal/execshell"
)

const (
	serviceLoggerRequiredMessageConstant   = "provision service requires a logger"
	serviceExecutorRequiredMessageConstant = "provision service requires a command executor"
	environmentCreationTemplateConstant    = "environment creation failed: %w"
	packageInstallationTemplateConstant    = "package installation failed: %w"

	condaCreateSubcommandConstant     = "create"
	condaRunSubcommandConstant        = "run"
	condaEnvironmentFlagConstant      = "-n"
	condaAssumeYesFlagConstant        = "-y"
	condaPythonSpecTemplateConstant   = "python=%s"
	pipExecutableNameConstant         = "pip"
	pipInstallSubcommandConstant      = "install"
	environmentCreatedMessageConstant = "conda environment created"
	packagesInstalledMessageConstant  = "pip packages installed"
	environmentNameFieldConstant      = "environment"
	packageCountFieldConstant         = "package_count"
)

// CondaCommandExecutor abstracts the shell executor used for provisioning.
type CondaCommandExecutor interface {
	ExecuteConda(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service provisions the Conda environment and its pip packages.
type Service struct {
	logger        *zap.Logger
	executor      CondaCommandExecutor
	configuration CommandConfiguration
}

// NewService assembles a provisioning service.
func NewService(logger *zap.Logger, executor CondaCommandExecutor, configuration CommandConfiguration) (*Service, error) {
	if logger == nil {
		return nil, errors.New(serviceLoggerRequiredMessageConstant)
	}
	if executor == nil {
		return nil, errors.New(serviceExecutorRequiredMessageConstant)
	}

	return &Service{logger: logger, executor: executor, configuration: configuration.Sanitize()}, nil
}

// Provision creates the environment and installs the pinned packages.
func (service *Service) Provision(executionContext context.Context) error {
	createArguments := []string{
		condaCreateSubcommandConstant,
		condaEnvironmentFlagConstant, service.configuration.EnvironmentName,
		fmt.Sprintf(condaPythonSpecTemplateConstant, service.configuration.PythonVersion),
		condaAssumeYesFlagConstant,
	}
	if _, creationError := service.executor.ExecuteConda(executionContext, execshell.CommandDetails{Arguments: createArguments}); creationError != nil {
		return fmt.Errorf(environmentCreationTemplateConstant, creationError)
	}
	service.logger.Info(environmentCreatedMessageConstant, zap.String(environmentNameFieldConstant, service.configuration.EnvironmentName))

	installArguments := []string{
		condaRunSubcommandConstant,
		condaEnvironmentFlagConstant, service.configuration.EnvironmentName,
		pipExecutableNameConstant,
		pipInstallSubcommandConstant,
	}
	installArguments = append(installArguments, service.configuration.Packages...)
	if _, installationError := service.executor.ExecuteConda(executionContext, execshell.CommandDetails{Arguments: installArguments}); installationError != nil {
		return fmt.Errorf(packageInstallationTemplateConstant, installationError)
	}
	service.logger.Info(
		packagesInstalledMessageConstant,
		zap.String(environmentNameFieldConstant, service.configuration.EnvironmentName),
		zap.Int(packageCountFieldConstant, len(service.configuration.Packages)),
	)

	return nil
}
