package rerank_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recbole-tools/recsub/internal/rerank"
)

const similarityToleranceConstant = 1e-9

func TestParametersValidate(testInstance *testing.T) {
	testCases := []struct {
		name        string
		parameters  rerank.Parameters
		expectError bool
	}{
		{
			name:        "accepts_defaults",
			parameters:  rerank.DefaultParameters(),
			expectError: false,
		},
		{
			name:        "rejects_lambda_above_one",
			parameters:  rerank.Parameters{LambdaWeight: 1.5, TopK: 20, CandidateCount: 500},
			expectError: true,
		},
		{
			name:        "rejects_negative_lambda",
			parameters:  rerank.Parameters{LambdaWeight: -0.1, TopK: 20, CandidateCount: 500},
			expectError: true,
		},
		{
			name:        "rejects_non_positive_top_k",
			parameters:  rerank.Parameters{LambdaWeight: 0.5, TopK: 0, CandidateCount: 500},
			expectError: true,
		},
		{
			name:        "rejects_candidates_below_top_k",
			parameters:  rerank.Parameters{LambdaWeight: 0.5, TopK: 20, CandidateCount: 10},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			validationError := testCase.parameters.Validate()
			if testCase.expectError {
				require.Error(testInstance, validationError)
				return
			}
			require.NoError(testInstance, validationError)
		})
	}
}

func TestCosineSimilarityMatrix(testInstance *testing.T) {
	similarityMatrix, similarityError := rerank.CosineSimilarityMatrix([][]float64{
		{2, 0},
		{1, 0},
		{0, 3},
	})
	require.NoError(testInstance, similarityError)

	require.InDelta(testInstance, 1.0, similarityMatrix[0][0], similarityToleranceConstant)
	require.InDelta(testInstance, 1.0, similarityMatrix[0][1], similarityToleranceConstant)
	require.InDelta(testInstance, 0.0, similarityMatrix[0][2], similarityToleranceConstant)
	require.InDelta(testInstance, 0.0, similarityMatrix[1][2], similarityToleranceConstant)
	require.InDelta(testInstance, 1.0, similarityMatrix[2][2], similarityToleranceConstant)
}

func TestCosineSimilarityMatrixValidation(testInstance *testing.T) {
	_, emptyError := rerank.CosineSimilarityMatrix(nil)
	require.Error(testInstance, emptyError)

	_, raggedError := rerank.CosineSimilarityMatrix([][]float64{{1, 0}, {1}})
	require.Error(testInstance, raggedError)
}

func TestRerankPrefersDiverseItems(testInstance *testing.T) {
	// Items 0 and 1 point the same way, item 2 is orthogonal. With equal
	// weighting the lower-scored but dissimilar item 2 wins the second slot.
	itemEmbeddings := [][]float64{
		{1, 0},
		{1, 0},
		{0, 1},
	}
	userScores := [][]float64{{0.9, 0.8, 0.5}}

	reranker, rerankerError := rerank.NewReranker(rerank.Parameters{LambdaWeight: 0.5, TopK: 2, CandidateCount: 3})
	require.NoError(testInstance, rerankerError)

	selections, rerankError := reranker.Rerank(itemEmbeddings, userScores)
	require.NoError(testInstance, rerankError)
	require.Equal(testInstance, [][]int{{0, 2}}, selections)
}

func TestRerankPureRelevanceKeepsScoreOrder(testInstance *testing.T) {
	itemEmbeddings := [][]float64{
		{1, 0},
		{1, 0},
		{0, 1},
	}
	userScores := [][]float64{{0.9, 0.8, 0.5}}

	reranker, rerankerError := rerank.NewReranker(rerank.Parameters{LambdaWeight: 1, TopK: 2, CandidateCount: 3})
	require.NoError(testInstance, rerankerError)

	selections, rerankError := reranker.Rerank(itemEmbeddings, userScores)
	require.NoError(testInstance, rerankError)
	require.Equal(testInstance, [][]int{{0, 1}}, selections)
}

func TestRerankCapsCandidatePool(testInstance *testing.T) {
	// Item 2 would win on diversity but sits outside the candidate pool.
	itemEmbeddings := [][]float64{
		{1, 0},
		{1, 0},
		{0, 1},
	}
	userScores := [][]float64{{0.9, 0.8, 0.5}}

	reranker, rerankerError := rerank.NewReranker(rerank.Parameters{LambdaWeight: 0.5, TopK: 2, CandidateCount: 2})
	require.NoError(testInstance, rerankerError)

	selections, rerankError := reranker.Rerank(itemEmbeddings, userScores)
	require.NoError(testInstance, rerankError)
	require.Equal(testInstance, [][]int{{0, 1}}, selections)
}

func TestRerankSelectsPerUser(testInstance *testing.T) {
	itemEmbeddings := [][]float64{
		{1, 0},
		{0, 1},
	}
	userScores := [][]float64{
		{0.9, 0.1},
		{0.1, 0.9},
	}

	reranker, rerankerError := rerank.NewReranker(rerank.Parameters{LambdaWeight: 1, TopK: 1, CandidateCount: 2})
	require.NoError(testInstance, rerankerError)

	selections, rerankError := reranker.Rerank(itemEmbeddings, userScores)
	require.NoError(testInstance, rerankError)
	require.Equal(testInstance, [][]int{{0}, {1}}, selections)
}

func TestRerankValidation(testInstance *testing.T) {
	itemEmbeddings := [][]float64{{1, 0}, {0, 1}}

	reranker, rerankerError := rerank.NewReranker(rerank.Parameters{LambdaWeight: 0.5, TopK: 2, CandidateCount: 2})
	require.NoError(testInstance, rerankerError)

	_, widthError := reranker.Rerank(itemEmbeddings, [][]float64{{0.9, 0.8, 0.7}})
	require.Error(testInstance, widthError)

	overSizedReranker, overSizedError := rerank.NewReranker(rerank.Parameters{LambdaWeight: 0.5, TopK: 3, CandidateCount: 3})
	require.NoError(testInstance, overSizedError)

	_, itemCountError := overSizedReranker.Rerank(itemEmbeddings, [][]float64{{0.9, 0.8}})
	require.Error(testInstance, itemCountError)
}
