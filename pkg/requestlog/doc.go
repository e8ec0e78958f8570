// Package requestlog records the requests a mocked invocation intercepted,
// the expectation each one was checked against, and the response it got.
//
// This package serves users who need to inspect or replay a conversation
// after the fact. It is distinct from operational logging (which uses
// log/slog for debugging the interceptor itself).
//
// # Core Types
//
// Entry is one intercepted exchange. Entries carry the raw request so a
// dumped log can be replayed through the verifier later.
//
// # Store Interface
//
// Store defines the interface for exchange history storage, supporting:
//   - Recording new entries
//   - Querying by ID or with filters
//   - Subscribing to new entries
//   - Clearing history
//
// # Usage
//
//	store := requestlog.NewMemoryStore(1000)
//	_, err := conversation.Run(ctx, subject, expectations, nil,
//	    conversation.WithRequestLog(store))
//	_ = store.WriteJSON(os.Stdout)
//
// # Package Design
//
// This is a leaf package with no internal dependencies, allowing it to be
// imported by any package without creating import cycles.
package requestlog
