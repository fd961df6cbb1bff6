package jobs

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

const (
	cancelCommandUseConstant             = "cancel <job-id>"
	cancelCommandShortDescription        = "Cancel a submitted cluster job"
	cancelCommandLongDescriptionConstant = "cancel asks the scheduler to cancel the job with the given identifier."
	cancelExecutionErrorTemplateConstant = "job cancellation failed: %w"
	cancelInvalidIdentifierTemplate      = "job identifier %s is not a number"
	cancelConfirmationTemplateConstant   = "Cancelled job %d\n"
)

// CancelCommandBuilder assembles the Cobra command for job cancellation.
type CancelCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Client                       ClusterJobsClient
}

// Build constructs the cancel command.
func (builder *CancelCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cancelCommandUseConstant,
		Short: cancelCommandShortDescription,
		Long:  cancelCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CancelCommandBuilder) run(command *cobra.Command, arguments []string) error {
	jobIdentifier, parseError := strconv.Atoi(arguments[0])
	if parseError != nil {
		return fmt.Errorf(cancelInvalidIdentifierTemplate, arguments[0])
	}

	client, clientError := resolveClusterJobsClient(builder.Client, resolveLogger(builder.LoggerProvider), builder.HumanReadableLoggingProvider)
	if clientError != nil {
		return clientError
	}

	if cancellationError := client.CancelJob(command.Context(), jobIdentifier); cancellationError != nil {
		return fmt.Errorf(cancelExecutionErrorTemplateConstant, cancellationError)
	}

	fmt.Fprintf(command.OutOrStdout(), cancelConfirmationTemplateConstant, jobIdentifier)
	return nil
}
