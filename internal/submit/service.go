package submit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/recbole-tools/recsub/internal/recbole"
	"github.com/recbole-tools/recsub/internal/slurm"
)

const (
	serviceLoggerRequiredMessageConstant  = "submit service requires a logger"
	serviceClientRequiredMessageConstant  = "submit service requires a scheduler client"
	negativeOversampleMessageConstant     = "oversample ratio must not be negative"
	negativeUndersampleMessageConstant    = "undersample ratio must not be negative"
	invalidZipfAlphaTemplateConstant      = "zipf alpha %s is not a number"
	frameworkConfigErrorTemplateConstant  = "framework configuration %s rejected: %w"
	submissionFailedTemplateConstant      = "submission of %s failed: %w"
	payloadSingularityPrefixConstant      = "singularity exec --nv"
	payloadArgumentSeparatorConstant      = " "
	payloadDatasetFlagConstant            = "-d"
	payloadModelFlagConstant              = "-m"
	payloadRetrainFlagConstant            = "-r"
	payloadEvaluateFlagConstant           = "-e"
	payloadOversampleFlagConstant         = "-o"
	payloadUndersampleFlagConstant        = "-u"
	payloadSaveModelFlagConstant          = "-s"
	payloadZipfAlphaFlagConstant          = "-a"
	zipfAlphaListSeparatorConstant        = ","
	submissionPlannedMessageConstant      = "planned job submission"
	submissionAcceptedMessageConstant     = "scheduler accepted job"
	missingFrameworkConfigMessageConstant = "framework configuration file not found, submitting without local validation"
	zipfAlphaNonEntropyMessageConstant    = "zipf alpha grid targets the entropy model variants and may be ignored by this model"
	submissionJobNameFieldConstant        = "job_name"
	submissionJobIdentifierFieldConstant  = "job_id"
	submissionModelFieldConstant          = "model"
	submissionConfigFilePathFieldConstant = "config_file"
)

// SubmissionOptions carries the per-invocation inputs of a job submission.
type SubmissionOptions struct {
	DatasetName       string
	ModelName         string
	Evaluate          bool
	Rerank            bool
	Retrain           bool
	ZipfAlphas        string
	GPUCount          int
	SaveModelAs       string
	NodeName          string
	OversampleRatio   float64
	UndersampleRatio  float64
	RecboleConfigPath string
}

// SubmissionOutcome reports one accepted batch job.
type SubmissionOutcome struct {
	JobName       string
	JobIdentifier int
}

// SchedulerClient abstracts the slurm client used for dispatch.
type SchedulerClient interface {
	SubmitBatchJob(executionContext context.Context, script string) (slurm.BatchJobSubmission, error)
}

// Service validates submission options, renders batch scripts, and dispatches them.
type Service struct {
	logger          *zap.Logger
	schedulerClient SchedulerClient
	configuration   CommandConfiguration
}

// NewService assembles a submission service.
func NewService(logger *zap.Logger, schedulerClient SchedulerClient, configuration CommandConfiguration) (*Service, error) {
	if logger == nil {
		return nil, errors.New(serviceLoggerRequiredMessageConstant)
	}
	if schedulerClient == nil {
		return nil, errors.New(serviceClientRequiredMessageConstant)
	}

	return &Service{logger: logger, schedulerClient: schedulerClient, configuration: configuration.Sanitize()}, nil
}

// Submit validates the options and dispatches one batch job per planned run.
//
// A comma-separated zipf alpha list expands into one job per alpha value, all
// submitted concurrently. Outcomes are returned in plan order.
func (service *Service) Submit(executionContext context.Context, options SubmissionOptions) ([]SubmissionOutcome, error) {
	resources, plans, validationError := service.planSubmissions(options)
	if validationError != nil {
		return nil, validationError
	}

	if configError := service.checkFrameworkConfiguration(options); configError != nil {
		return nil, configError
	}

	outcomes := make([]SubmissionOutcome, len(plans))
	submissionGroup, groupContext := errgroup.WithContext(executionContext)
	for planIndex, plannedAlpha := range plans {
		jobName := BuildJobName(JobNameSpecification{
			ModelName:        options.ModelName,
			DatasetName:      options.DatasetName,
			SaveModelAs:      options.SaveModelAs,
			Evaluate:         options.Evaluate,
			Rerank:           options.Rerank,
			ZipfAlpha:        plannedAlpha,
			OversampleRatio:  options.OversampleRatio,
			UndersampleRatio: options.UndersampleRatio,
		})

		script, renderError := slurm.RenderBatchScript(slurm.BatchScriptSpecification{
			JobName:        jobName,
			OutputPath:     BuildOutputPath(service.configuration.OutputDirectory, jobName),
			Partition:      service.configuration.Partition,
			Account:        service.configuration.Account,
			NodeList:       strings.TrimSpace(options.NodeName),
			TimeLimit:      service.configuration.TimeLimit,
			Resources:      resources,
			PayloadCommand: service.buildPayloadCommand(options, plannedAlpha),
		})
		if renderError != nil {
			return nil, renderError
		}

		service.logger.Info(submissionPlannedMessageConstant, zap.String(submissionJobNameFieldConstant, jobName))

		submissionGroup.Go(func() error {
			submission, submissionError := service.schedulerClient.SubmitBatchJob(groupContext, script)
			if submissionError != nil {
				return fmt.Errorf(submissionFailedTemplateConstant, jobName, submissionError)
			}

			outcomes[planIndex] = SubmissionOutcome{JobName: jobName, JobIdentifier: submission.JobIdentifier}
			service.logger.Info(
				submissionAcceptedMessageConstant,
				zap.String(submissionJobNameFieldConstant, jobName),
				zap.Int(submissionJobIdentifierFieldConstant, submission.JobIdentifier),
			)
			return nil
		})
	}

	if waitError := submissionGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	return outcomes, nil
}

func (service *Service) planSubmissions(options SubmissionOptions) (slurm.ResourceRequest, []string, error) {
	if datasetError := recbole.ValidateDataset(options.DatasetName); datasetError != nil {
		return slurm.ResourceRequest{}, nil, datasetError
	}
	if modelError := recbole.ValidateModel(options.ModelName); modelError != nil {
		return slurm.ResourceRequest{}, nil, modelError
	}

	resources, resourceError := slurm.BuildResourceRequest(options.GPUCount)
	if resourceError != nil {
		return slurm.ResourceRequest{}, nil, resourceError
	}

	if options.OversampleRatio < 0 {
		return slurm.ResourceRequest{}, nil, errors.New(negativeOversampleMessageConstant)
	}
	if options.UndersampleRatio < 0 {
		return slurm.ResourceRequest{}, nil, errors.New(negativeUndersampleMessageConstant)
	}

	plannedAlphas, alphaError := parseZipfAlphas(options.ZipfAlphas)
	if alphaError != nil {
		return slurm.ResourceRequest{}, nil, alphaError
	}

	if len(plannedAlphas[0]) > 0 && !recbole.IsEntropyModel(options.ModelName) {
		service.logger.Warn(zipfAlphaNonEntropyMessageConstant, zap.String(submissionModelFieldConstant, options.ModelName))
	}

	return resources, plannedAlphas, nil
}

// checkFrameworkConfiguration validates the pass-through RecBole configuration
// when it is present on the submitting host. Jobs started from hosts without a
// local copy skip validation rather than fail.
func (service *Service) checkFrameworkConfiguration(options SubmissionOptions) error {
	selection := service.configuration.ConfigFileSelection()
	configFilePath := strings.TrimSpace(options.RecboleConfigPath)
	if len(configFilePath) > 0 {
		selection.ConfigFilePath = configFilePath
	}

	configFilePaths := recbole.BuildConfigFileList(selection, options.DatasetName, options.Evaluate)
	for _, candidatePath := range configFilePaths {
		if _, statError := os.Stat(candidatePath); statError != nil {
			service.logger.Warn(missingFrameworkConfigMessageConstant, zap.String(submissionConfigFilePathFieldConstant, candidatePath))
			continue
		}

		document, loadError := recbole.LoadDocument(candidatePath)
		if loadError != nil {
			return fmt.Errorf(frameworkConfigErrorTemplateConstant, candidatePath, loadError)
		}
		if validationError := document.Validate(); validationError != nil {
			return fmt.Errorf(frameworkConfigErrorTemplateConstant, candidatePath, validationError)
		}
	}

	return nil
}

func (service *Service) buildPayloadCommand(options SubmissionOptions, plannedAlpha string) string {
	payloadParts := []string{
		payloadSingularityPrefixConstant,
		service.configuration.ContainerImage,
		service.configuration.Entrypoint,
		payloadDatasetFlagConstant, strings.TrimSpace(options.DatasetName),
		payloadModelFlagConstant, strings.TrimSpace(options.ModelName),
	}

	if options.Retrain {
		payloadParts = append(payloadParts, payloadRetrainFlagConstant)
	}
	if options.Evaluate {
		payloadParts = append(payloadParts, payloadEvaluateFlagConstant)
	}
	if options.OversampleRatio > 0 {
		payloadParts = append(payloadParts, payloadOversampleFlagConstant, FormatRatio(options.OversampleRatio))
	}
	if options.UndersampleRatio > 0 {
		payloadParts = append(payloadParts, payloadUndersampleFlagConstant, FormatRatio(options.UndersampleRatio))
	}
	if saveModelAs := strings.TrimSpace(options.SaveModelAs); len(saveModelAs) > 0 {
		payloadParts = append(payloadParts, payloadSaveModelFlagConstant, saveModelAs)
	}
	if len(plannedAlpha) > 0 {
		payloadParts = append(payloadParts, payloadZipfAlphaFlagConstant, plannedAlpha)
	}

	return strings.Join(payloadParts, payloadArgumentSeparatorConstant)
}

func parseZipfAlphas(alphaList string) ([]string, error) {
	trimmedList := strings.TrimSpace(alphaList)
	if len(trimmedList) == 0 {
		return []string{""}, nil
	}

	plannedAlphas := []string{}
	for _, alphaCandidate := range strings.Split(trimmedList, zipfAlphaListSeparatorConstant) {
		trimmedAlpha := strings.TrimSpace(alphaCandidate)
		if len(trimmedAlpha) == 0 {
			continue
		}
		if _, parseError := strconv.ParseFloat(trimmedAlpha, 64); parseError != nil {
			return nil, fmt.Errorf(invalidZipfAlphaTemplateConstant, trimmedAlpha)
		}
		plannedAlphas = append(plannedAlphas, trimmedAlpha)
	}

	if len(plannedAlphas) == 0 {
		return []string{""}, nil
	}

	return plannedAlphas, nil
}
