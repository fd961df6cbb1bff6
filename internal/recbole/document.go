package recbole

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	documentReadErrorTemplateConstant    = "failed to read framework configuration: %w"
	documentParseErrorTemplateConstant   = "failed to parse framework configuration: %w"
	documentEmptyMessageConstant         = "framework configuration is empty"
	nonPositiveEpochsTemplateConstant    = "epochs must be positive, got %d"
	nonPositiveBatchSizeTemplateConstant = "train_batch_size must be positive, got %d"
	missingFieldMappingTemplateConstant  = "field mapping %s must be non-empty when declared"
	unknownMetricTemplateConstant        = "metric %s is not in the metric registry"
	userIdentifierFieldKeyConstant       = "USER_ID_FIELD"
	itemIdentifierFieldKeyConstant       = "ITEM_ID_FIELD"
)

// Document is the subset of a RecBole YAML configuration the tooling inspects.
//
// Every key the tooling does not know about is preserved in Raw and travels to
// the framework untouched.
type Document struct {
	Epochs              int            `yaml:"epochs"`
	TrainBatchSize      int            `yaml:"train_batch_size"`
	EvalBatchSize       int            `yaml:"eval_batch_size"`
	EvalArgs            map[string]any `yaml:"eval_args"`
	Metrics             []string       `yaml:"metrics"`
	UserIdentifierField string         `yaml:"USER_ID_FIELD"`
	ItemIdentifierField string         `yaml:"ITEM_ID_FIELD"`

	Raw map[string]any `yaml:"-"`
}

// LoadDocument reads and decodes a framework configuration file.
func LoadDocument(filePath string) (Document, error) {
	documentBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		return Document{}, fmt.Errorf(documentReadErrorTemplateConstant, readError)
	}
	return ParseDocument(documentBytes)
}

// ParseDocument decodes framework configuration content.
func ParseDocument(documentBytes []byte) (Document, error) {
	rawDocument := map[string]any{}
	if unmarshalError := yaml.Unmarshal(documentBytes, &rawDocument); unmarshalError != nil {
		return Document{}, fmt.Errorf(documentParseErrorTemplateConstant, unmarshalError)
	}
	if len(rawDocument) == 0 {
		return Document{}, errors.New(documentEmptyMessageConstant)
	}

	document := Document{}
	if unmarshalError := yaml.Unmarshal(documentBytes, &document); unmarshalError != nil {
		return Document{}, fmt.Errorf(documentParseErrorTemplateConstant, unmarshalError)
	}
	document.Raw = rawDocument

	return document, nil
}

// Validate checks the handful of fields the submission tooling depends on.
//
// Absent fields are acceptable: the framework supplies its own defaults. Only
// declared-but-unusable values are rejected.
func (document Document) Validate() error {
	if _, epochsDeclared := document.Raw["epochs"]; epochsDeclared && document.Epochs <= 0 {
		return fmt.Errorf(nonPositiveEpochsTemplateConstant, document.Epochs)
	}

	if _, batchSizeDeclared := document.Raw["train_batch_size"]; batchSizeDeclared && document.TrainBatchSize <= 0 {
		return fmt.Errorf(nonPositiveBatchSizeTemplateConstant, document.TrainBatchSize)
	}

	fieldMappings := map[string]string{
		userIdentifierFieldKeyConstant: document.UserIdentifierField,
		itemIdentifierFieldKeyConstant: document.ItemIdentifierField,
	}
	for fieldMappingKey, fieldMappingValue := range fieldMappings {
		if _, fieldDeclared := document.Raw[fieldMappingKey]; fieldDeclared && len(fieldMappingValue) == 0 {
			return fmt.Errorf(missingFieldMappingTemplateConstant, fieldMappingKey)
		}
	}

	knownMetricNames := DefaultMetrics()
	for _, metricName := range document.Metrics {
		if !containsMetric(knownMetricNames, metricName) {
			return fmt.Errorf(unknownMetricTemplateConstant, metricName)
		}
	}

	return nil
}

func containsMetric(knownMetricNames []string, metricName string) bool {
	for _, knownMetricName := range knownMetricNames {
		if metricName == knownMetricName {
			return true
		}
	}
	return false
}
