// Package cliconfig provides configuration types and loading for the
// mocktransport CLI.
//
// It implements a layered configuration system with the following precedence
// (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (MOCKTRANSPORT_* prefix)
//  3. Local config file (.mocktransportrc.json in the working directory)
//  4. Global config file (<user config dir>/mocktransport/config.json)
//  5. Default values
//
// Every field records the layer that last set it in CLIConfig.Sources so
// `mocktransport config` can show where a value came from.
package cliconfig
