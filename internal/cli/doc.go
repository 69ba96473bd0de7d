// Package cli defines the Cobra command tree for the monokit CLI. Each file
// registers one top-level command with the root command. Commands resolve the
// repository workspace, delegate to internal/scaffold, and only handle
// argument parsing, output formatting and template selection.
package cli
