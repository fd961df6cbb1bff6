package rerank

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	serviceLoggerRequiredMessageConstant = "rerank service requires a logger"
	embeddingsPathRequiredMessage        = "embeddings file path must be provided"
	scoresPathRequiredMessageConstant    = "scores file path must be provided"
	outputPathRequiredMessageConstant    = "output file path must be provided"
	rerankCompletedMessageConstant       = "reranked recommendation lists"
	userCountFieldConstant               = "users"
	itemCountFieldConstant               = "items"
	outputPathFieldConstant              = "output"
)

// RerankRequest names the input and output files of one reranking run.
type RerankRequest struct {
	EmbeddingsPath string
	ScoresPath     string
	OutputPath     string
	Parameters     Parameters
}

// Service loads exported matrices, applies MMR selection, and writes the result.
type Service struct {
	logger *zap.Logger
}

// NewService assembles a reranking service.
func NewService(logger *zap.Logger) (*Service, error) {
	if logger == nil {
		return nil, errors.New(serviceLoggerRequiredMessageConstant)
	}
	return &Service{logger: logger}, nil
}

// Rerank executes one end-to-end reranking run.
func (service *Service) Rerank(request RerankRequest) error {
	if len(strings.TrimSpace(request.EmbeddingsPath)) == 0 {
		return errors.New(embeddingsPathRequiredMessage)
	}
	if len(strings.TrimSpace(request.ScoresPath)) == 0 {
		return errors.New(scoresPathRequiredMessageConstant)
	}
	if len(strings.TrimSpace(request.OutputPath)) == 0 {
		return errors.New(outputPathRequiredMessageConstant)
	}

	reranker, rerankerError := NewReranker(request.Parameters)
	if rerankerError != nil {
		return rerankerError
	}

	itemEmbeddings, embeddingsError := LoadMatrixCSV(request.EmbeddingsPath)
	if embeddingsError != nil {
		return embeddingsError
	}

	userScores, scoresError := LoadMatrixCSV(request.ScoresPath)
	if scoresError != nil {
		return scoresError
	}

	selections, rerankError := reranker.Rerank(itemEmbeddings, userScores)
	if rerankError != nil {
		return rerankError
	}

	if writeError := WriteSelectionsCSV(request.OutputPath, selections); writeError != nil {
		return writeError
	}

	service.logger.Info(
		rerankCompletedMessageConstant,
		zap.Int(userCountFieldConstant, len(userScores)),
		zap.Int(itemCountFieldConstant, len(itemEmbeddings)),
		zap.String(outputPathFieldConstant, request.OutputPath),
	)

	return nil
}
