// Package utils holds the plumbing shared by every recsub command.
//
// It covers layered configuration loading through Viper, zap logger
// construction from the configured level and format, command context
// accessors, and flushing writers for command output.
package utils
