// Package slurm integrates the Slurm workload manager through execshell.
//
// It computes per-job resource requests from GPU counts, renders sbatch batch
// scripts, and exposes a Client wrapping sbatch, squeue, and scancel
// invocations with typed errors.
package slurm
