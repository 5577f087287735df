// Package client contains the I/O building blocks of the zviewer CLI.
//
// # Overview
//
// The package provides:
//  1. A node contract (see the NodeClient interface) for fetching raw
//     transactions and chain status from a full node.
//  2. A JSON-RPC implementation (see RPCClient) over btcd's rpcclient in
//     HTTP POST mode, which is what zcashd and zebrad speak.
//  3. Local persistence bootstrap (OpenDatabase, RunMigrations) that picks
//     SQLite or PostgreSQL from the DSN and applies the embedded goose
//     migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrTxNotFound, ErrLocalDataNotAvailable. Errors
// reported by the node itself are returned as *btcjson.RPCError.
//
// Concurrency & Contexts
//
// RPCClient is safe for concurrent use. Every call accepts a context and
// returns as soon as it is done, abandoning the in-flight request.
//
// See Also
//
//   - Interface:  NodeClient
//   - RPC impl:   RPCClient
//   - DB helpers: OpenDatabase, RunMigrations
package client
