// Package logging provides structured logging configuration for mocktransport.
//
// This package wraps log/slog so the interceptor, the verifier and the CLI
// log the same way.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//
//	_, err := conversation.Run(ctx, subject, expectations, nil,
//	    conversation.WithLogger(logger))
//
// # Log Levels
//
// Four log levels are supported:
//   - Debug: every intercepted request and state transition
//   - Info: general operational information
//   - Warn: a captured error about to be surfaced
//   - Error: failures the CLI cannot recover from
//
// # Output Formats
//
//   - Text: Human-readable format for development
//   - JSON: Structured format for log aggregation systems
//
// # Integration
//
// Components accept a *slog.Logger through an option. If no logger is
// provided, they use logging.Nop().
package logging
