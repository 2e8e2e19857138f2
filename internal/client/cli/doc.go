// Package cli provides the interactive accounts command-line client.
//
// It wires configuration, the HTTP API client and a REPL. The access token
// obtained by "login" lives only in memory for the lifetime of the process.
// A background watcher pings the server and reports online/offline
// transitions.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
