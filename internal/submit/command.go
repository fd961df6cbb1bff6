package submit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recbole-tools/recsub/internal/execshell"
	"github.com/recbole-tools/recsub/internal/recbole"
	"github.com/recbole-tools/recsub/internal/slurm"
	"github.com/recbole-tools/recsub/internal/ui"
	"github.com/recbole-tools/recsub/internal/utils"
)

const (
	commandUseConstant                    = "submit"
	commandShortDescriptionConstant       = "Submit a RecBole training or evaluation job to the cluster"
	commandLongDescriptionConstant        = "submit validates the dataset and model selection, computes the Slurm resource request from the GPU count, renders a batch script running RecBole inside a Singularity container, and hands it to sbatch."
	commandExecutionErrorTemplateConstant = "job submission failed: %w"
	unexpectedArgumentsMessageConstant    = "submit does not accept positional arguments"
	outcomeReportTemplateConstant         = "Submitted %s as job %d\n"
	configurationSourceMessageConstant    = "using configuration file"
	configurationSourceFieldConstant      = "config_file"

	flagRecboleConfigNameConstant          = "recbole-config"
	flagRecboleConfigShorthandConstant     = "c"
	flagRecboleConfigDescriptionConstant   = "Path to the RecBole YAML configuration passed through to the framework"
	flagDatasetNameConstant                = "dataset"
	flagDatasetShorthandConstant           = "d"
	flagDatasetDescriptionTemplateConstant = "Dataset to train or evaluate on, one of %s"
	flagModelNameConstant                  = "model"
	flagModelShorthandConstant             = "m"
	flagModelDescriptionTemplateConstant   = "Model to train or evaluate, one of %s"
	flagEvaluateNameConstant               = "evaluate"
	flagEvaluateShorthandConstant          = "e"
	flagEvaluateDescriptionConstant        = "Evaluate the selected model instead of training"
	flagRerankNameConstant                 = "rerank"
	flagRerankShorthandConstant            = "r"
	flagRerankDescriptionConstant          = "Run the reranking variant of the selected model"
	flagRetrainNameConstant                = "retrain"
	flagRetrainDescriptionConstant         = "Ignore any pre-trained model and retrain from scratch"
	flagZipfAlphasNameConstant             = "zipf-alphas"
	flagZipfAlphasShorthandConstant        = "z"
	flagZipfAlphasDescriptionConstant      = "Comma-separated zipf alpha values; submits one job per value"
	flagGPUCountNameConstant               = "gpus"
	flagGPUCountShorthandConstant          = "g"
	flagGPUCountDescriptionConstant        = "Number of GPUs to request"
	flagSaveModelAsNameConstant            = "save-as"
	flagSaveModelAsShorthandConstant       = "s"
	flagSaveModelAsDescriptionConstant     = "Custom name to save the trained model as"
	flagNodeNameConstant                   = "node"
	flagNodeShorthandConstant              = "n"
	flagNodeDescriptionConstant            = "Target cluster node for the job"
	flagOversampleNameConstant             = "oversample"
	flagOversampleShorthandConstant        = "o"
	flagOversampleDescriptionConstant      = "Oversampling ratio applied to the training data"
	flagUndersampleNameConstant            = "undersample"
	flagUndersampleShorthandConstant       = "u"
	flagUndersampleDescriptionConstant     = "Undersampling ratio applied to the training data"

	flagChoiceListSeparatorConstant = ", "
	defaultGPUCountConstant         = 1
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the submit command configuration.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for job submission.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	SchedulerClient              SchedulerClient
}

// Build constructs the submit command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	datasetDescription := fmt.Sprintf(flagDatasetDescriptionTemplateConstant, strings.Join(recbole.SupportedDatasets(), flagChoiceListSeparatorConstant))
	modelDescription := fmt.Sprintf(flagModelDescriptionTemplateConstant, strings.Join(recbole.SupportedModels(), flagChoiceListSeparatorConstant))

	command.Flags().StringP(flagRecboleConfigNameConstant, flagRecboleConfigShorthandConstant, "", flagRecboleConfigDescriptionConstant)
	command.Flags().StringP(flagDatasetNameConstant, flagDatasetShorthandConstant, "", datasetDescription)
	command.Flags().StringP(flagModelNameConstant, flagModelShorthandConstant, "", modelDescription)
	command.Flags().BoolP(flagEvaluateNameConstant, flagEvaluateShorthandConstant, false, flagEvaluateDescriptionConstant)
	command.Flags().BoolP(flagRerankNameConstant, flagRerankShorthandConstant, false, flagRerankDescriptionConstant)
	command.Flags().Bool(flagRetrainNameConstant, false, flagRetrainDescriptionConstant)
	command.Flags().StringP(flagZipfAlphasNameConstant, flagZipfAlphasShorthandConstant, "", flagZipfAlphasDescriptionConstant)
	command.Flags().IntP(flagGPUCountNameConstant, flagGPUCountShorthandConstant, defaultGPUCountConstant, flagGPUCountDescriptionConstant)
	command.Flags().StringP(flagSaveModelAsNameConstant, flagSaveModelAsShorthandConstant, "", flagSaveModelAsDescriptionConstant)
	command.Flags().StringP(flagNodeNameConstant, flagNodeShorthandConstant, "", flagNodeDescriptionConstant)
	command.Flags().Float64P(flagOversampleNameConstant, flagOversampleShorthandConstant, 0, flagOversampleDescriptionConstant)
	command.Flags().Float64P(flagUndersampleNameConstant, flagUndersampleShorthandConstant, 0, flagUndersampleDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options := builder.parseOptions(command)

	logger := builder.resolveLogger()

	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFilePath, configurationFilePathAvailable := contextAccessor.ConfigurationFilePath(command.Context()); configurationFilePathAvailable && len(configurationFilePath) > 0 {
		logger.Debug(configurationSourceMessageConstant, zap.String(configurationSourceFieldConstant, configurationFilePath))
	}

	schedulerClient, clientError := builder.resolveSchedulerClient(logger)
	if clientError != nil {
		return clientError
	}

	service, serviceError := NewService(logger, schedulerClient, builder.resolveConfiguration())
	if serviceError != nil {
		return serviceError
	}

	outcomes, submissionError := service.Submit(command.Context(), options)
	if submissionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, submissionError)
	}

	for _, outcome := range outcomes {
		fmt.Fprintf(command.OutOrStdout(), outcomeReportTemplateConstant, outcome.JobName, outcome.JobIdentifier)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) SubmissionOptions {
	recboleConfigPath, _ := command.Flags().GetString(flagRecboleConfigNameConstant)
	datasetName, _ := command.Flags().GetString(flagDatasetNameConstant)
	modelName, _ := command.Flags().GetString(flagModelNameConstant)
	evaluate, _ := command.Flags().GetBool(flagEvaluateNameConstant)
	rerank, _ := command.Flags().GetBool(flagRerankNameConstant)
	retrain, _ := command.Flags().GetBool(flagRetrainNameConstant)
	zipfAlphas, _ := command.Flags().GetString(flagZipfAlphasNameConstant)
	gpuCount, _ := command.Flags().GetInt(flagGPUCountNameConstant)
	saveModelAs, _ := command.Flags().GetString(flagSaveModelAsNameConstant)
	nodeName, _ := command.Flags().GetString(flagNodeNameConstant)
	oversampleRatio, _ := command.Flags().GetFloat64(flagOversampleNameConstant)
	undersampleRatio, _ := command.Flags().GetFloat64(flagUndersampleNameConstant)

	return SubmissionOptions{
		DatasetName:       datasetName,
		ModelName:         modelName,
		Evaluate:          evaluate,
		Rerank:            rerank,
		Retrain:           retrain,
		ZipfAlphas:        zipfAlphas,
		GPUCount:          gpuCount,
		SaveModelAs:       saveModelAs,
		NodeName:          nodeName,
		OversampleRatio:   oversampleRatio,
		UndersampleRatio:  undersampleRatio,
		RecboleConfigPath: recboleConfigPath,
	}
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

func (builder *CommandBuilder) resolveSchedulerClient(logger *zap.Logger) (SchedulerClient, error) {
	if builder.SchedulerClient != nil {
		return builder.SchedulerClient, nil
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

	schedulerClient, clientError := slurm.NewClient(shellExecutor)
	if clientError != nil {
		return nil, clientError
	}

	return schedulerClient, nil
}
