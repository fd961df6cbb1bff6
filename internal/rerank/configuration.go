package rerank

const (
	configurationLambdaKeyConstant     = "lambda"
	configurationTopKKeyConstant       = "top_k"
	configurationCandidatesKeyConstant = "candidates"
	configurationKeySeparator          = "."
)

// CommandConfiguration captures configuration values for the rerank command.
type CommandConfiguration struct {
	LambdaWeight   float64 `mapstructure:"lambda"`
	TopK           int     `mapstructure:"top_k"`
	CandidateCount int     `mapstructure:"candidates"`
}

// DefaultCommandConfiguration provides baseline reranking values.
func DefaultCommandConfiguration() CommandConfiguration {
	defaults := DefaultParameters()
	return CommandConfiguration{
		LambdaWeight:   defaults.LambdaWeight,
		TopK:           defaults.TopK,
		CandidateCount: defaults.CandidateCount,
	}
}

// DefaultConfigurationValues produces Viper defaults for the rerank command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + configurationLambdaKeyConstant:     defaults.LambdaWeight,
		rootKey + configurationKeySeparator + configurationTopKKeyConstant:       defaults.TopK,
		rootKey + configurationKeySeparator + configurationCandidatesKeyConstant: defaults.CandidateCount,
	}
}

// Parameters converts the configuration into reranker parameters.
func (configuration CommandConfiguration) Parameters() Parameters {
	parameters := DefaultParameters()
	if configuration.LambdaWeight > 0 {
		parameters.LambdaWeight = configuration.LambdaWeight
	}
	if configuration.TopK > 0 {
		parameters.TopK = configuration.TopK
	}
	if configuration.CandidateCount > 0 {
		parameters.CandidateCount = configuration.CandidateCount
	}
	return parameters
}
