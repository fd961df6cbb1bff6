// Package jobs exposes the queue inspection and cancellation commands for
// jobs previously submitted to the cluster.
package jobs
