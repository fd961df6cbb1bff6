package rerank

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant                    = "rerank"
	commandShortDescriptionConstant       = "Rerank exported recommendation scores with maximal marginal relevance"
	commandLongDescriptionConstant        = "rerank loads exported item embeddings and per-user score matrices, applies maximal-marginal-relevance selection, and writes the reranked item lists."
	commandExecutionErrorTemplateConstant = "reranking failed: %w"
	unexpectedArgumentsMessageConstant    = "rerank does not accept positional arguments"

	flagEmbeddingsNameConstant        = "embeddings"
	flagEmbeddingsDescriptionConstant = "CSV file holding one embedding row per item"
	flagScoresNameConstant            = "scores"
	flagScoresDescriptionConstant     = "CSV file holding one score row per user"
	flagOutputNameConstant            = "output"
	flagOutputDescriptionConstant     = "CSV file to write the selected item indices to"
	flagLambdaNameConstant            = "lambda"
	flagLambdaShorthandConstant       = "l"
	flagLambdaDescriptionConstant     = "Relevance weight; diversity weight is its complement"
	flagTopKNameConstant              = "top-k"
	flagTopKShorthandConstant         = "k"
	flagTopKDescriptionConstant       = "Number of items to select per user"
	flagCandidatesNameConstant        = "candidates"
	flagCandidatesDescriptionConstant = "Size of the per-user candidate pool"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the rerank command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for reranking.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the rerank command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaults := builder.resolveConfiguration().Parameters()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagEmbeddingsNameConstant, "", flagEmbeddingsDescriptionConstant)
	command.Flags().String(flagScoresNameConstant, "", flagScoresDescriptionConstant)
	command.Flags().String(flagOutputNameConstant, "", flagOutputDescriptionConstant)
	command.Flags().Float64P(flagLambdaNameConstant, flagLambdaShorthandConstant, defaults.LambdaWeight, flagLambdaDescriptionConstant)
	command.Flags().IntP(flagTopKNameConstant, flagTopKShorthandConstant, defaults.TopK, flagTopKDescriptionConstant)
	command.Flags().Int(flagCandidatesNameConstant, defaults.CandidateCount, flagCandidatesDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	embeddingsPath, _ := command.Flags().GetString(flagEmbeddingsNameConstant)
	scoresPath, _ := command.Flags().GetString(flagScoresNameConstant)
	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	lambdaWeight, _ := command.Flags().GetFloat64(flagLambdaNameConstant)
	topK, _ := command.Flags().GetInt(flagTopKNameConstant)
	candidateCount, _ := command.Flags().GetInt(flagCandidatesNameConstant)

	service, serviceError := NewService(builder.resolveLogger())
	if serviceError != nil {
		return serviceError
	}

	request := RerankRequest{
		EmbeddingsPath: embeddingsPath,
		ScoresPath:     scoresPath,
		OutputPath:     outputPath,
		Parameters: Parameters{
			LambdaWeight:   lambdaWeight,
			TopK:           topK,
			CandidateCount: candidateCount,
		},
	}

	if rerankError := service.Rerank(request); rerankError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, rerankError)
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
