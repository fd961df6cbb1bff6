package recbole

import (
	"fmt"
	"strings"
)

const (
	datasetMovieLens100KConstant = "ml-100k"
	datasetMovieLens1MConstant   = "ml-1m"
	datasetMovieLens20MConstant  = "ml-20m"
	datasetGowallaMergedConstant = "gowalla-merged"
	datasetSteamMergedConstant   = "steam-merged"

	modelBPRConstant            = "BPR"
	modelLightGCNConstant       = "LightGCN"
	modelNGCFConstant           = "NGCF"
	modelRandomConstant         = "Random"
	modelBPREntropyConstant     = "BPREntropy"
	modelLightGCNEntropyConst   = "LightGCNEntropy"
	modelNGCFEntropyConstant    = "NGCFEntropy"
	entropyModelSuffixConstant  = "Entropy"
	registryJoinSeparatorConst  = ", "
	unsupportedDatasetTemplate  = "dataset %s not supported; supported datasets: %s"
	unsupportedModelTemplateStr = "model %s not supported; supported models: %s"
)

// SteamMergedDatasetName identifies the dataset that requires an extra configuration overlay.
const SteamMergedDatasetName = datasetSteamMergedConstant

var supportedDatasetNames = []string{
	datasetMovieLens100KConstant,
	datasetMovieLens1MConstant,
	datasetMovieLens20MConstant,
	datasetGowallaMergedConstant,
	datasetSteamMergedConstant,
}

var supportedModelNames = []string{
	modelBPRConstant,
	modelLightGCNConstant,
	modelNGCFConstant,
	modelRandomConstant,
	modelBPREntropyConstant,
	modelLightGCNEntropyConst,
	modelNGCFEntropyConstant,
}

var defaultMetricNames = []string{
	"Recall",
	"MRR",
	"NDCG",
	"Precision",
	"Hit",
	"Exposure",
	"ShannonEntropy",
	"Novelty",
	"RecommendedGraph",
	"TailPercentage",
}

// SupportedDatasets lists the dataset names accepted by the submission tooling.
func SupportedDatasets() []string {
	return append([]string{}, supportedDatasetNames...)
}

// SupportedModels lists the model names accepted by the submission tooling.
func SupportedModels() []string {
	return append([]string{}, supportedModelNames...)
}

// DefaultMetrics lists the evaluation metrics requested from the framework.
func DefaultMetrics() []string {
	return append([]string{}, defaultMetricNames...)
}

// ValidateDataset confirms the dataset name belongs to the registry.
func ValidateDataset(datasetName string) error {
	trimmedName := strings.TrimSpace(datasetName)
	for _, supportedName := range supportedDatasetNames {
		if trimmedName == supportedName {
			return nil
		}
	}
	return fmt.Errorf(unsupportedDatasetTemplate, trimmedName, strings.Join(supportedDatasetNames, registryJoinSeparatorConst))
}

// ValidateModel confirms the model name belongs to the registry.
func ValidateModel(modelName string) error {
	trimmedName := strings.TrimSpace(modelName)
	for _, supportedName := range supportedModelNames {
		if trimmedName == supportedName {
			return nil
		}
	}
	return fmt.Errorf(unsupportedModelTemplateStr, trimmedName, strings.Join(supportedModelNames, registryJoinSeparatorConst))
}

// IsEntropyModel reports whether the model is one of the entropy-regularized variants.
func IsEntropyModel(modelName string) bool {
	return strings.HasSuffix(strings.TrimSpace(modelName), entropyModelSuffixConstant)
}
