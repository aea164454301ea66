// Package query provides backend-agnostic helpers for document database queries.
//
// The package works against the small [Source], [ResultSet] and [Document]
// interfaces. Adapters bind them to a concrete client; see package dynamo
// for DynamoDB and package stream for DynamoDB Streams.
//
// # Operations
//
//   - [NormalizeTimestamps] converts backend timestamp values ([Temporal])
//     inside a document into time.Time, recursing into nested maps but not
//     into slices.
//   - [ConvertSnapshot] turns a result set into [Record] values, each with
//     an "id" key taken from the document handle.
//   - [Client.FetchPage] fetches one cursor-based page.
//   - [Client.QueryIn] runs a membership query over an arbitrarily long value
//     list by splitting it into chunks that respect the backend's
//     per-query value limit.
//
// # Configuration
//
// Use [DefaultConfig] for pages and chunks of 10 with sequential dispatch:
//
//	cfg := query.DefaultConfig()
//	cfg.ChunkSize = 100     // DynamoDB IN accepts up to 100 values
//	cfg.MaxConcurrency = 4  // keep four chunk queries in flight
//	client, err := query.New(query.WithConfig(cfg), query.WithLogger(logger))
//
// # Errors
//
// Both FetchPage and QueryIn report failures explicitly:
//
//   - [ErrQueryExecution] - the backend failed to execute a query
//   - [ErrInvalidArgument] - bad page size, chunk size, config or input map
//
// FetchPage also logs the failure and returns an empty [Page], so callers
// that ignore the error see a failed fetch as the end of the data.
// QueryIn discards the results of chunks that already completed when any
// chunk fails.
package query
