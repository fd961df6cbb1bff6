package jobs

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recbole-tools/recsub/internal/utils"
)

const (
	queueCommandUseConstant              = "queue"
	queueCommandShortDescription         = "List jobs waiting or running on the cluster"
	queueCommandLongDescriptionConstant  = "queue lists the cluster jobs reported by squeue, optionally restricted to one user."
	queueExecutionErrorTemplateConstant  = "queue listing failed: %w"
	queueUnexpectedArgumentsMessageConst = "queue does not accept positional arguments"
	queueEmptyMessageConstant            = "No queued jobs."
	queueHeaderLineConstant              = "JOBID\tNAME\tSTATE\tTIME"
	queueRowTemplateConstant             = "%d\t%s\t%s\t%s\n"

	flagUserNameConstant        = "user"
	flagUserShorthandConstant   = "U"
	flagUserDescriptionConstant = "Restrict the listing to one user's jobs"
)

var errQueueUnexpectedArguments = errors.New(queueUnexpectedArgumentsMessageConst)

// QueueCommandBuilder assembles the Cobra command for queue inspection.
type QueueCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Client                       ClusterJobsClient
}

// Build constructs the queue command.
func (builder *QueueCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   queueCommandUseConstant,
		Short: queueCommandShortDescription,
		Long:  queueCommandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().StringP(flagUserNameConstant, flagUserShorthandConstant, "", flagUserDescriptionConstant)

	return command, nil
}

func (builder *QueueCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errQueueUnexpectedArguments
	}

	userName, _ := command.Flags().GetString(flagUserNameConstant)

	client, clientError := resolveClusterJobsClient(builder.Client, resolveLogger(builder.LoggerProvider), builder.HumanReadableLoggingProvider)
	if clientError != nil {
		return clientError
	}

	queuedJobs, listingError := client.ListQueuedJobs(command.Context(), userName)
	if listingError != nil {
		return fmt.Errorf(queueExecutionErrorTemplateConstant, listingError)
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())

	if len(queuedJobs) == 0 {
		fmt.Fprintln(outputWriter, queueEmptyMessageConstant)
		return nil
	}

	fmt.Fprintln(outputWriter, queueHeaderLineConstant)
	for _, queuedJob := range queuedJobs {
		fmt.Fprintf(outputWriter, queueRowTemplateConstant, queuedJob.JobIdentifier, queuedJob.JobName, queuedJob.JobState, queuedJob.ElapsedTime)
	}

	return nil
}
