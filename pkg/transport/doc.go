// Package transport serves the quill HTTP API. It wires the storage,
// auth, llm, and agent packages into net/http handlers, applies the
// middleware stack (request id, recovery, access log, metrics, auth),
// and owns the server lifecycle including graceful shutdown.
package transport
