package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	sbatchJobNameFlagPrefixConstant   = "--job-name="
	singularityExecSubcommandConstant = "exec"
	condaCreateSubcommandConstant     = "create"
	condaRunSubcommandConstant        = "run"
	condaEnvironmentFlagConstant      = "-n"
	squeueUserFlagPrefixConstant      = "--user="
	batchJobDefaultLabelConstant      = "batch job"
	queueAllUsersLabelConstant        = "all users"
	condaEnvironmentDefaultLabel      = "environment"
	singularityImageDefaultLabel      = "container image"
)

const (
	sbatchStartTemplateConstant            = "Submitting %s to the scheduler"
	sbatchSuccessTemplateConstant          = "Scheduler accepted %s%s"
	sbatchSuccessJobIDTemplateConstant     = " as %s"
	sbatchFailureTemplateConstant          = "Failed to submit %s (exit code %d%s)"
	sbatchExecutionFailureTemplateConstant = "Unable to submit %s: %s"

	squeueStartTemplateConstant            = "Querying scheduler queue for %s"
	squeueSuccessTemplateConstant          = "Retrieved scheduler queue for %s"
	squeueFailureTemplateConstant          = "Failed to query scheduler queue for %s (exit code %d%s)"
	squeueExecutionFailureTemplateConstant = "Unable to query scheduler queue for %s: %s"

	scancelStartTemplateConstant            = "Cancelling scheduler job %s"
	scancelSuccessTemplateConstant          = "Cancelled scheduler job %s"
	scancelFailureTemplateConstant          = "Failed to cancel scheduler job %s (exit code %d%s)"
	scancelExecutionFailureTemplateConstant = "Unable to cancel scheduler job %s: %s"

	singularityStartTemplateConstant            = "Executing command inside %s"
	singularitySuccessTemplateConstant          = "Command inside %s finished"
	singularityFailureTemplateConstant          = "Command inside %s failed (exit code %d%s)"
	singularityExecutionFailureTemplateConstant = "Unable to execute command inside %s: %s"

	condaCreateStartTemplateConstant   = "Creating conda environment %s"
	condaCreateSuccessTemplateConstant = "Created conda environment %s"
	condaCreateFailureTemplateConstant = "Failed to create conda environment %s (exit code %d%s)"
	condaRunStartTemplateConstant      = "Running command in conda environment %s"
	condaRunSuccessTemplateConstant    = "Command in conda environment %s finished"
	condaRunFailureTemplateConstant    = "Command in conda environment %s failed (exit code %d%s)"
	condaExecutionFailureTemplate      = "Unable to run conda for environment %s: %s"
)

// CommandMessageFormatter builds human-oriented log messages for command lifecycle stages.
type CommandMessageFormatter struct{}

// BuildStartMessage describes a command that is about to run.
func (formatter CommandMessageFormatter) BuildStartMessage(command ShellCommand) string {
	return formatter.describeCommand(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage describes a command that completed with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.describeCommand(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage describes a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.describeCommand(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage describes a command that could not be executed.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.describeCommand(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) describeCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandSbatch:
		return formatter.describeSbatchMessage(command, result, failure, stage)
	case CommandSqueue:
		return formatter.describeSqueueMessage(command, result, failure, stage)
	case CommandScancel:
		return formatter.describeScancelMessage(command, result, failure, stage)
	case CommandSingularity:
		return formatter.describeSingularityMessage(command, result, failure, stage)
	case CommandConda:
		return formatter.describeCondaMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSbatchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	jobLabel := formatter.extractSbatchJobLabel(command.Details.Arguments)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(sbatchStartTemplateConstant, jobLabel)
	case messageStageSuccess:
		jobIdentifierSuffix := emptyStringConstant
		submittedJobIdentifier := extractSubmittedJobIdentifier(result.StandardOutput)
		if len(submittedJobIdentifier) > 0 {
			jobIdentifierSuffix = fmt.Sprintf(sbatchSuccessJobIDTemplateConstant, submittedJobIdentifier)
		}
		return fmt.Sprintf(sbatchSuccessTemplateConstant, jobLabel, jobIdentifierSuffix)
	case messageStageFailure:
		return fmt.Sprintf(sbatchFailureTemplateConstant, jobLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(sbatchExecutionFailureTemplateConstant, jobLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSqueueMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	userLabel := queueAllUsersLabelConstant
	for _, argument := range command.Details.Arguments {
		if strings.HasPrefix(argument, squeueUserFlagPrefixConstant) {
			trimmedUser := strings.TrimSpace(strings.TrimPrefix(argument, squeueUserFlagPrefixConstant))
			if len(trimmedUser) > 0 {
				userLabel = trimmedUser
			}
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(squeueStartTemplateConstant, userLabel)
	case messageStageSuccess:
		return fmt.Sprintf(squeueSuccessTemplateConstant, userLabel)
	case messageStageFailure:
		return fmt.Sprintf(squeueFailureTemplateConstant, userLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(squeueExecutionFailureTemplateConstant, userLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeScancelMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	jobIdentifier := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 0))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(scancelStartTemplateConstant, jobIdentifier)
	case messageStageSuccess:
		return fmt.Sprintf(scancelSuccessTemplateConstant, jobIdentifier)
	case messageStageFailure:
		return fmt.Sprintf(scancelFailureTemplateConstant, jobIdentifier, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(scancelExecutionFailureTemplateConstant, jobIdentifier, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSingularityMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	imageLabel := singularityImageDefaultLabel
	if len(arguments) > 0 && strings.TrimSpace(arguments[0]) == singularityExecSubcommandConstant {
		for _, argument := range arguments[1:] {
			if strings.HasPrefix(argument, "-") {
				continue
			}
			imageLabel = argument
			break
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(singularityStartTemplateConstant, imageLabel)
	case messageStageSuccess:
		return fmt.Sprintf(singularitySuccessTemplateConstant, imageLabel)
	case messageStageFailure:
		return fmt.Sprintf(singularityFailureTemplateConstant, imageLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(singularityExecutionFailureTemplateConstant, imageLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCondaMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	environmentLabel := condaEnvironmentDefaultLabel
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) == condaEnvironmentFlagConstant && argumentIndex+1 < len(arguments) {
			environmentLabel = arguments[argumentIndex+1]
		}
	}

	subcommand := emptyStringConstant
	if len(arguments) > 0 {
		subcommand = strings.TrimSpace(arguments[0])
	}

	switch subcommand {
	case condaCreateSubcommandConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(condaCreateStartTemplateConstant, environmentLabel)
		case messageStageSuccess:
			return fmt.Sprintf(condaCreateSuccessTemplateConstant, environmentLabel)
		case messageStageFailure:
			return fmt.Sprintf(condaCreateFailureTemplateConstant, environmentLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(condaExecutionFailureTemplate, environmentLabel, formatter.describeFailure(failure))
		}
	case condaRunSubcommandConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(condaRunStartTemplateConstant, environmentLabel)
		case messageStageSuccess:
			return fmt.Sprintf(condaRunSuccessTemplateConstant, environmentLabel)
		case messageStageFailure:
			return fmt.Sprintf(condaRunFailureTemplateConstant, environmentLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(condaExecutionFailureTemplate, environmentLabel, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := describeCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return commandLabel
	}
}

func (formatter CommandMessageFormatter) extractSbatchJobLabel(arguments []string) string {
	for _, argument := range arguments {
		if strings.HasPrefix(argument, sbatchJobNameFlagPrefixConstant) {
			trimmedName := strings.TrimSpace(strings.TrimPrefix(argument, sbatchJobNameFlagPrefixConstant))
			if len(trimmedName) > 0 {
				return trimmedName
			}
		}
	}
	return batchJobDefaultLabelConstant
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return arguments[index]
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

func describeCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory))
}

// extractSubmittedJobIdentifier parses the job identifier from sbatch output.
//
// sbatch prints "Submitted batch job <id>" by default and a bare identifier
// when invoked with --parsable.
func extractSubmittedJobIdentifier(standardOutput string) string {
	trimmedOutput := strings.TrimSpace(standardOutput)
	if len(trimmedOutput) == 0 {
		return emptyStringConstant
	}

	outputFields := strings.Fields(trimmedOutput)
	lastField := outputFields[len(outputFields)-1]
	for _, character := range lastField {
		if character < '0' || character > '9' {
			return emptyStringConstant
		}
	}
	return lastField
}
