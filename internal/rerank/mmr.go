package rerank

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultLambdaWeight balances relevance against diversity.
	DefaultLambdaWeight = 0.5
	// DefaultTopK is the number of items selected per user.
	DefaultTopK = 20
	// DefaultCandidateCount is the size of the per-user candidate pool.
	DefaultCandidateCount = 500

	lambdaRangeMessageConstant        = "lambda weight must lie in [0, 1]"
	topKRangeMessageConstant          = "top-k must be positive"
	candidateRangeMessageConstant     = "candidate count must be at least top-k"
	emptyEmbeddingsMessageConstant    = "item embeddings must not be empty"
	raggedEmbeddingsMessageConstant   = "item embeddings must share one dimension"
	scoreWidthMismatchTemplate        = "user %d scores %d items, embeddings describe %d"
	insufficientItemsTemplateConstant = "top-k %d exceeds item count %d"
)

// Parameters tune the MMR selection.
type Parameters struct {
	LambdaWeight   float64
	TopK           int
	CandidateCount int
}

// DefaultParameters returns the selection constants carried over from the exporter.
func DefaultParameters() Parameters {
	return Parameters{
		LambdaWeight:   DefaultLambdaWeight,
		TopK:           DefaultTopK,
		CandidateCount: DefaultCandidateCount,
	}
}

// Validate checks the parameter ranges.
func (parameters Parameters) Validate() error {
	if parameters.LambdaWeight < 0 || parameters.LambdaWeight > 1 {
		return errors.New(lambdaRangeMessageConstant)
	}
	if parameters.TopK <= 0 {
		return errors.New(topKRangeMessageConstant)
	}
	if parameters.CandidateCount < parameters.TopK {
		return errors.New(candidateRangeMessageConstant)
	}
	return nil
}

// Reranker performs maximal-marginal-relevance selection.
type Reranker struct {
	parameters Parameters
}

// NewReranker validates the parameters and builds a reranker.
func NewReranker(parameters Parameters) (*Reranker, error) {
	if validationError := parameters.Validate(); validationError != nil {
		return nil, validationError
	}
	return &Reranker{parameters: parameters}, nil
}

// CosineSimilarityMatrix computes pairwise cosine similarity between item embeddings.
//
// Rows are L2-normalized first, so the similarity of an item with itself is 1
// for any non-zero embedding.
func CosineSimilarityMatrix(itemEmbeddings [][]float64) ([][]float64, error) {
	if len(itemEmbeddings) == 0 {
		return nil, errors.New(emptyEmbeddingsMessageConstant)
	}

	embeddingDimension := len(itemEmbeddings[0])
	normalizedEmbeddings := make([][]float64, len(itemEmbeddings))
	for itemIndex, embedding := range itemEmbeddings {
		if len(embedding) != embeddingDimension {
			return nil, errors.New(raggedEmbeddingsMessageConstant)
		}

		norm := 0.0
		for _, component := range embedding {
			norm += component * component
		}
		norm = math.Sqrt(norm)

		normalizedRow := make([]float64, embeddingDimension)
		if norm > 0 {
			for componentIndex, component := range embedding {
				normalizedRow[componentIndex] = component / norm
			}
		}
		normalizedEmbeddings[itemIndex] = normalizedRow
	}

	similarityMatrix := make([][]float64, len(normalizedEmbeddings))
	for firstIndex := range normalizedEmbeddings {
		similarityRow := make([]float64, len(normalizedEmbeddings))
		for secondIndex := range normalizedEmbeddings {
			dotProduct := 0.0
			for componentIndex := 0; componentIndex < embeddingDimension; componentIndex++ {
				dotProduct += normalizedEmbeddings[firstIndex][componentIndex] * normalizedEmbeddings[secondIndex][componentIndex]
			}
			similarityRow[secondIndex] = dotProduct
		}
		similarityMatrix[firstIndex] = similarityRow
	}

	return similarityMatrix, nil
}

// Rerank selects top-k item indices per user from the score matrix.
//
// Candidates are the highest-scoring items per user, capped at the candidate
// count. The first pick is the top-scoring candidate; every following pick
// maximizes lambda*score - (1-lambda)*sum(similarity to selected).
func (reranker *Reranker) Rerank(itemEmbeddings [][]float64, userScores [][]float64) ([][]int, error) {
	similarityMatrix, similarityError := CosineSimilarityMatrix(itemEmbeddings)
	if similarityError != nil {
		return nil, similarityError
	}

	itemCount := len(itemEmbeddings)
	if reranker.parameters.TopK > itemCount {
		return nil, fmt.Errorf(insufficientItemsTemplateConstant, reranker.parameters.TopK, itemCount)
	}

	selections := make([][]int, len(userScores))
	for userIndex, scores := range userScores {
		if len(scores) != itemCount {
			return nil, fmt.Errorf(scoreWidthMismatchTemplate, userIndex, len(scores), itemCount)
		}
		selections[userIndex] = reranker.selectForUser(similarityMatrix, scores)
	}

	return selections, nil
}

func (reranker *Reranker) selectForUser(similarityMatrix [][]float64, scores []float64) []int {
	candidates := topCandidates(scores, reranker.parameters.CandidateCount)

	selected := make([]int, 0, reranker.parameters.TopK)
	selected = append(selected, candidates[0])
	remaining := append([]int{}, candidates[1:]...)

	for len(selected) < reranker.parameters.TopK && len(remaining) > 0 {
		bestPosition := 0
		bestValue := math.Inf(-1)
		for position, candidate := range remaining {
			similaritySum := 0.0
			for _, selectedItem := range selected {
				similaritySum += similarityMatrix[candidate][selectedItem]
			}

			mmrValue := reranker.parameters.LambdaWeight*scores[candidate] - (1-reranker.parameters.LambdaWeight)*similaritySum
			if mmrValue > bestValue {
				bestValue = mmrValue
				bestPosition = position
			}
		}

		selected = append(selected, remaining[bestPosition])
		remaining = append(remaining[:bestPosition], remaining[bestPosition+1:]...)
	}

	return selected
}

// topCandidates returns item indices ordered by descending score, capped at limit.
func topCandidates(scores []float64, limit int) []int {
	candidateIndices := make([]int, len(scores))
	for itemIndex := range scores {
		candidateIndices[itemIndex] = itemIndex
	}

	sort.SliceStable(candidateIndices, func(firstPosition, secondPosition int) bool {
		return scores[candidateIndices[firstPosition]] > scores[candidateIndices[secondPosition]]
	})

	if limit < len(candidateIndices) {
		candidateIndices = candidateIndices[:limit]
	}

	return candidateIndices
}
