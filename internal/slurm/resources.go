package slurm

import "fmt"

const (
	// MemoryGigabytesPerGPU is the cluster-wide memory allowance per requested GPU.
	MemoryGigabytesPerGPU = 24
	// CPUsPerGPU is the cluster-wide CPU allowance per requested GPU.
	CPUsPerGPU = 4

	minimumGPUCountConstant             = 1
	invalidGPUCountMessageTemplate      = "gpu count must be at least %d, got %d"
	gresDirectiveTemplateConstant       = "gpu:%d"
	memoryDirectiveTemplateConstant     = "%dG"
	cpuCountDirectiveTemplateConstant   = "%d"
	resourceSummaryTemplateConstant     = "%d gpu(s), %dG memory, %d cpu(s)"
	resourceRequestStringerNameTemplate = "ResourceRequest(%s)"
)

// ResourceRequest captures the scheduler resources derived from a GPU count.
type ResourceRequest struct {
	GPUCount        int
	MemoryGigabytes int
	CPUCount        int
}

// BuildResourceRequest derives memory and CPU allocations from the requested GPU count.
func BuildResourceRequest(gpuCount int) (ResourceRequest, error) {
	if gpuCount < minimumGPUCountConstant {
		return ResourceRequest{}, fmt.Errorf(invalidGPUCountMessageTemplate, minimumGPUCountConstant, gpuCount)
	}

	resourceRequest := ResourceRequest{
		GPUCount:        gpuCount,
		MemoryGigabytes: gpuCount * MemoryGigabytesPerGPU,
		CPUCount:        gpuCount * CPUsPerGPU,
	}

	return resourceRequest, nil
}

// GenericResourceValue renders the value for the sbatch --gres directive.
func (request ResourceRequest) GenericResourceValue() string {
	return fmt.Sprintf(gresDirectiveTemplateConstant, request.GPUCount)
}

// MemoryValue renders the value for the sbatch --mem directive.
func (request ResourceRequest) MemoryValue() string {
	return fmt.Sprintf(memoryDirectiveTemplateConstant, request.MemoryGigabytes)
}

// CPUCountValue renders the value for the sbatch --cpus-per-task directive.
func (request ResourceRequest) CPUCountValue() string {
	return fmt.Sprintf(cpuCountDirectiveTemplateConstant, request.CPUCount)
}

// String summarizes the resource request for diagnostics.
func (request ResourceRequest) String() string {
	summary := fmt.Sprintf(resourceSummaryTemplateConstant, request.GPUCount, request.MemoryGigabytes, request.CPUCount)
	return fmt.Sprintf(resourceRequestStringerNameTemplate, summary)
}
