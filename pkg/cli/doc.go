// Package cli provides the command-line interface for mocktransport.
//
// The commands work on expectation files and recorded request logs:
//   - validate: schema-check and decode expectation files
//   - normalize: print the canonical form of each expectation
//   - verify: replay a request log dumped by a test against expectations
//   - config: display the effective configuration and its sources
//   - version: show version information
//
// Every command accepts --json for machine-readable output. Logs go to
// stderr and optionally to a file given with --log-file.
package cli
