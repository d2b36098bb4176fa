// Package ipc exposes api.Service over JSON-RPC on a Unix socket and ships
// the matching client.
//
// Errors cross the socket as a JSON {kind, message} payload in the RPC error
// string. The client decodes it into a RemoteError that unwraps to the
// services sentinel for that kind, so errors.Is keeps working on the far
// side of the socket.
//
// Reuse these request/response types when adding endpoints to keep the
// protocol stable.
package ipc
