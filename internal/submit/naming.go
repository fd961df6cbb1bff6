package submit

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	jobNameSegmentSeparatorConstant  = "_"
	jobNameEvalSuffixConstant        = "_eval"
	jobNameRerankSuffixConstant      = "_rerank"
	jobNameZipfSuffixPrefixConstant  = "_zipf"
	jobNameOversampleSuffixConstant  = "_os"
	jobNameUndersampleSuffixConstant = "_us"
	outputFileNameTemplateConstant   = "%j.out"
	outputFileNameSeparatorConstant  = "_"
	ratioFormatPrecisionConstant     = -1
	ratioFormatBitSizeConstant       = 64
)

// JobNameSpecification holds the inputs of the job-name concatenation rule.
type JobNameSpecification struct {
	ModelName        string
	DatasetName      string
	SaveModelAs      string
	Evaluate         bool
	Rerank           bool
	ZipfAlpha        string
	OversampleRatio  float64
	UndersampleRatio float64
}

// BuildJobName assembles the scheduler job name.
//
// The stem is <model>_<dataset>, replaced entirely by the save-as name when one
// is provided. Suffixes follow in a fixed order: _eval, _rerank, _zipf<alpha>,
// _os<ratio>, _us<ratio>.
func BuildJobName(specification JobNameSpecification) string {
	nameBuilder := strings.Builder{}

	trimmedSaveAs := strings.TrimSpace(specification.SaveModelAs)
	if len(trimmedSaveAs) > 0 {
		nameBuilder.WriteString(trimmedSaveAs)
	} else {
		nameBuilder.WriteString(strings.TrimSpace(specification.ModelName))
		nameBuilder.WriteString(jobNameSegmentSeparatorConstant)
		nameBuilder.WriteString(strings.TrimSpace(specification.DatasetName))
	}

	if specification.Evaluate {
		nameBuilder.WriteString(jobNameEvalSuffixConstant)
	}
	if specification.Rerank {
		nameBuilder.WriteString(jobNameRerankSuffixConstant)
	}

	trimmedAlpha := strings.TrimSpace(specification.ZipfAlpha)
	if len(trimmedAlpha) > 0 {
		nameBuilder.WriteString(jobNameZipfSuffixPrefixConstant)
		nameBuilder.WriteString(trimmedAlpha)
	}

	if specification.OversampleRatio > 0 {
		nameBuilder.WriteString(jobNameOversampleSuffixConstant)
		nameBuilder.WriteString(FormatRatio(specification.OversampleRatio))
	}
	if specification.UndersampleRatio > 0 {
		nameBuilder.WriteString(jobNameUndersampleSuffixConstant)
		nameBuilder.WriteString(FormatRatio(specification.UndersampleRatio))
	}

	return nameBuilder.String()
}

// BuildOutputPath joins the output directory with <jobName>_%j.out, where %j is
// expanded by the scheduler to the job identifier.
func BuildOutputPath(outputDirectory string, jobName string) string {
	outputFileName := jobName + outputFileNameSeparatorConstant + outputFileNameTemplateConstant
	return filepath.Join(strings.TrimSpace(outputDirectory), outputFileName)
}

// FormatRatio renders a sampling ratio the way it appears in job names and runner arguments.
func FormatRatio(ratioValue float64) string {
	return strconv.FormatFloat(ratioValue, 'g', ratioFormatPrecisionConstant, ratioFormatBitSizeConstant)
}
