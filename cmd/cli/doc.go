// Package cli wires the recsub root command: configuration loading, logger
// construction, and registration of the job submission, provisioning,
// reranking, and queue management subcommands.
package cli
