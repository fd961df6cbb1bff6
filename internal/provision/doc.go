// Package provision creates the Conda environment and installs the pinned pip
// packages the RecBole jobs run against.
package provision
