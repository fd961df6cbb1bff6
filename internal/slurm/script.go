package slurm

import (
	"errors"
	"fmt"
	"strings"
)

const (
	scriptShebangLineConstant           = "#!/bin/bash"
	scriptDirectiveTemplateConstant     = "#SBATCH --%s=%s"
	scriptJobNameDirectiveConstant      = "job-name"
	scriptOutputDirectiveConstant       = "output"
	scriptPartitionDirectiveConstant    = "partition"
	scriptAccountDirectiveConstant      = "account"
	scriptNodeListDirectiveConstant     = "nodelist"
	scriptTimeDirectiveConstant         = "time"
	scriptGenericResourceDirective      = "gres"
	scriptMemoryDirectiveConstant       = "mem"
	scriptCPUCountDirectiveConstant     = "cpus-per-task"
	scriptLineSeparatorConstant         = "\n"
	scriptJobNameRequiredMessage        = "batch script requires a job name"
	scriptOutputPathRequiredMessage     = "batch script requires an output path"
	scriptPayloadRequiredMessageConst   = "batch script requires a payload command"
	scriptResourcesRequiredMessageConst = "batch script requires a resource request"
)

// BatchScriptSpecification describes everything needed to render an sbatch script.
type BatchScriptSpecification struct {
	JobName        string
	OutputPath     string
	Partition      string
	Account        string
	NodeList       string
	TimeLimit      string
	Resources      ResourceRequest
	PayloadCommand string
}

// RenderBatchScript produces the batch script text submitted to sbatch on standard input.
func RenderBatchScript(specification BatchScriptSpecification) (string, error) {
	trimmedJobName := strings.TrimSpace(specification.JobName)
	if len(trimmedJobName) == 0 {
		return "", errors.New(scriptJobNameRequiredMessage)
	}

	trimmedOutputPath := strings.TrimSpace(specification.OutputPath)
	if len(trimmedOutputPath) == 0 {
		return "", errors.New(scriptOutputPathRequiredMessage)
	}

	trimmedPayload := strings.TrimSpace(specification.PayloadCommand)
	if len(trimmedPayload) == 0 {
		return "", errors.New(scriptPayloadRequiredMessageConst)
	}

	if specification.Resources.GPUCount < minimumGPUCountConstant {
		return "", errors.New(scriptResourcesRequiredMessageConst)
	}

	scriptLines := []string{
		scriptShebangLineConstant,
		formatDirective(scriptJobNameDirectiveConstant, trimmedJobName),
		formatDirective(scriptOutputDirectiveConstant, trimmedOutputPath),
		formatDirective(scriptGenericResourceDirective, specification.Resources.GenericResourceValue()),
		formatDirective(scriptMemoryDirectiveConstant, specification.Resources.MemoryValue()),
		formatDirective(scriptCPUCountDirectiveConstant, specification.Resources.CPUCountValue()),
	}

	optionalDirectives := []struct {
		directiveName  string
		directiveValue string
	}{
		{directiveName: scriptPartitionDirectiveConstant, directiveValue: specification.Partition},
		{directiveName: scriptAccountDirectiveConstant, directiveValue: specification.Account},
		{directiveName: scriptNodeListDirectiveConstant, directiveValue: specification.NodeList},
		{directiveName: scriptTimeDirectiveConstant, directiveValue: specification.TimeLimit},
	}

	for _, optionalDirective := range optionalDirectives {
		trimmedValue := strings.TrimSpace(optionalDirective.directiveValue)
		if len(trimmedValue) == 0 {
			continue
		}
		scriptLines = append(scriptLines, formatDirective(optionalDirective.directiveName, trimmedValue))
	}

	scriptLines = append(scriptLines, "", trimmedPayload, "")

	return strings.Join(scriptLines, scriptLineSeparatorConstant), nil
}

func formatDirective(directiveName string, directiveValue string) string {
	return fmt.Sprintf(scriptDirectiveTemplateConstant, directiveName, directiveValue)
}
