package slurm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/recbole-tools/recsub/internal/execshell"
)

const (
	parsableFlagConstant                    = "--parsable"
	noHeaderFlagConstant                    = "--noheader"
	userFlagTemplateConstant                = "--user=%s"
	queueFormatFlagConstant                 = "--format=%i|%j|%T|%M"
	queueFieldSeparatorConstant             = "|"
	queueFieldCountConstant                 = 4
	clusterIdentifierSeparatorConstant      = ";"
	executorNotConfiguredMessageConstant    = "slurm executor not configured"
	requiredValueMessageConstant            = "value required"
	scriptFieldNameConstant                 = "script"
	jobIdentifierFieldNameConstant          = "job_identifier"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	submitJobOperationNameConstant          = OperationName("SubmitBatchJob")
	listQueuedJobsOperationNameConstant     = OperationName("ListQueuedJobs")
	cancelJobOperationNameConstant          = OperationName("CancelJob")
)

// OperationName describes a named Slurm workflow supported by the client.
type OperationName string

// BatchJobSubmission reports the scheduler identifier assigned to a submitted job.
type BatchJobSubmission struct {
	JobIdentifier int
}

// QueuedJob represents one row of squeue output.
type QueuedJob struct {
	JobIdentifier int
	JobName       string
	JobState      string
	ElapsedTime   string
}

// SchedulerCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type SchedulerCommandExecutor interface {
	ExecuteSbatch(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteSqueue(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteScancel(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates Slurm invocations through execshell.
type Client struct {
	executor SchedulerCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for Slurm operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// NewClient constructs a Slurm client backed by the provided executor.
func NewClient(executor SchedulerCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// SubmitBatchJob submits the rendered batch script via sbatch and returns the assigned job identifier.
//
// The script travels on standard input so no temporary files are left behind.
func (client *Client) SubmitBatchJob(executionContext context.Context, script string) (BatchJobSubmission, error) {
	trimmedScript := strings.TrimSpace(script)
	if len(trimmedScript) == 0 {
		return BatchJobSubmission{}, InvalidInputError{FieldName: scriptFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments:     []string{parsableFlagConstant},
		StandardInput: []byte(script),
	}

	executionResult, executionError := client.executor.ExecuteSbatch(executionContext, commandDetails)
	if executionError != nil {
		return BatchJobSubmission{}, OperationError{Operation: submitJobOperationNameConstant, Cause: executionError}
	}

	jobIdentifier, parseError := parseSubmittedJobIdentifier(executionResult.StandardOutput)
	if parseError != nil {
		return BatchJobSubmission{}, OperationError{
			Operation: submitJobOperationNameConstant,
			Cause:     fmt.Errorf(responseDecodingErrorTemplateConstant, submitJobOperationNameConstant, parseError),
		}
	}

	return BatchJobSubmission{JobIdentifier: jobIdentifier}, nil
}

// ListQueuedJobs returns the queued and running jobs for the provided user.
func (client *Client) ListQueuedJobs(executionContext context.Context, userName string) ([]QueuedJob, error) {
	commandArguments := []string{noHeaderFlagConstant, queueFormatFlagConstant}
	trimmedUserName := strings.TrimSpace(userName)
	if len(trimmedUserName) > 0 {
		commandArguments = append(commandArguments, fmt.Sprintf(userFlagTemplateConstant, trimmedUserName))
	}

	executionResult, executionError := client.executor.ExecuteSqueue(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return nil, OperationError{Operation: listQueuedJobsOperationNameConstant, Cause: executionError}
	}

	queuedJobs, parseError := parseQueuedJobs(executionResult.StandardOutput)
	if parseError != nil {
		return nil, OperationError{
			Operation: listQueuedJobsOperationNameConstant,
			Cause:     fmt.Errorf(responseDecodingErrorTemplateConstant, listQueuedJobsOperationNameConstant, parseError),
		}
	}

	return queuedJobs, nil
}

// CancelJob cancels the job with the provided identifier via scancel.
func (client *Client) CancelJob(executionContext context.Context, jobIdentifier int) error {
	if jobIdentifier <= 0 {
		return InvalidInputError{FieldName: jobIdentifierFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{Arguments: []string{strconv.Itoa(jobIdentifier)}}
	_, executionError := client.executor.ExecuteScancel(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: cancelJobOperationNameConstant, Cause: executionError}
	}

	return nil
}

// parseSubmittedJobIdentifier decodes sbatch --parsable output, which is either
// "<id>" or "<id>;<cluster>".
func parseSubmittedJobIdentifier(standardOutput string) (int, error) {
	trimmedOutput := strings.TrimSpace(standardOutput)
	identifierText, _, _ := strings.Cut(trimmedOutput, clusterIdentifierSeparatorConstant)
	return strconv.Atoi(strings.TrimSpace(identifierText))
}

func parseQueuedJobs(standardOutput string) ([]QueuedJob, error) {
	queuedJobs := []QueuedJob{}
	for _, outputLine := range strings.Split(standardOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}

		lineFields := strings.Split(trimmedLine, queueFieldSeparatorConstant)
		if len(lineFields) != queueFieldCountConstant {
			return nil, fmt.Errorf("unexpected squeue row: %s", trimmedLine)
		}

		jobIdentifier, identifierError := strconv.Atoi(strings.TrimSpace(lineFields[0]))
		if identifierError != nil {
			return nil, identifierError
		}

		queuedJobs = append(queuedJobs, QueuedJob{
			JobIdentifier: jobIdentifier,
			JobName:       strings.TrimSpace(lineFields[1]),
			JobState:      strings.TrimSpace(lineFields[2]),
			ElapsedTime:   strings.TrimSpace(lineFields[3]),
		})
	}

	return queuedJobs, nil
}
