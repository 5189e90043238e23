// Package cli defines the Cobra command tree for the base CLI. Each file in
// this package registers one top-level command (setup, create, doctor, etc.)
// with the root command. Command implementations delegate to internal
// packages for the pipeline and only handle flags, prompts and output.
package cli
