// Package daemon owns the long-running wordcore process.
//
// It holds a flock-based instance lock under the data directory so only one
// daemon serves a database at a time, and it runs the ipc server that exposes
// api.Service to local clients. Request handling lives in api; the daemon
// only covers startup, shutdown, and status.
package daemon
