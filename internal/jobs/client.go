package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/recbole-tools/recsub/internal/execshell"
	"github.com/recbole-tools/recsub/internal/slurm"
	"github.com/recbole-tools/recsub/internal/ui"
)

// ClusterJobsClient abstracts the slurm client operations used by the job commands.
type ClusterJobsClient interface {
	ListQueuedJobs(executionContext context.Context, userName string) ([]slurm.QueuedJob, error)
	CancelJob(executionContext context.Context, jobIdentifier int) error
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console logging is active.
type HumanReadableLoggingProvider func() bool

func resolveClusterJobsClient(configured ClusterJobsClient, logger *zap.Logger, humanReadableLogging HumanReadableLoggingProvider) (ClusterJobsClient, error) {
	if configured != nil {
		return configured, nil
	}

	commandRunner := execshell.NewOSCommandRunner()

	var shellExecutor *execshell.ShellExecutor
	var executorError error
	if humanReadableLogging != nil && humanReadableLogging() {
		shellExecutor, executorError = execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	} else {
		shellExecutor, executorError = execshell.NewShellExecutor(logger, commandRunner)
	}
	if executorError != nil {
		return nil, executorError
	}

	schedulerClient, clientError := slurm.NewClient(shellExecutor)
	if clientError != nil {
		return nil, clientError
	}

	return schedulerClient, nil
}

func resolveLogger(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}

	logger := loggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
