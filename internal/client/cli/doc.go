// Package cli provides the interactive zviewer command-line client.
//
// It wires configuration, local storage, the node RPC client and the wallet
// services behind a REPL. A session starts with the vault passphrase, then a
// background watcher keeps the online/offline mode of the node current while
// the user imports viewing keys, scans transactions and reads balances.
//
// Scanning by txid needs the node; scanhex, reports, export and the memo
// tools work offline.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
