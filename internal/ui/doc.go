// Package ui renders shell command lifecycle events as console messages.
//
// When the CLI runs with the console log format, scheduler and container
// invocations are narrated in plain language while the structured loggers
// keep carrying the full execution detail.
package ui
