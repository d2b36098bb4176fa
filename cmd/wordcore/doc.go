// Command wordcore is the command-line front end for the vocabulary core.
//
// Commands that have an RPC endpoint go through the daemon when its socket
// answers and fall back to an in-process service otherwise. Everything else
// opens the database directly. Every listing command accepts --json.
package main
