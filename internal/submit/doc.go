// Package submit builds and dispatches RecBole training and evaluation jobs to
// a Slurm cluster. It validates dataset and model selections, computes the
// resource request from the GPU count, assembles the job name and output path,
// renders the batch script with its singularity payload, and submits it through
// the scheduler client. A comma-separated list of zipf alpha values expands
// into one concurrently submitted job per value.
package submit
