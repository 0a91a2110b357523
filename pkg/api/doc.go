// Package api defines the wire types for the Quill HTTP API: request and
// response bodies, the error taxonomy, and input validation.
//
// The types here are transport-independent; handlers in pkg/transport
// serialize them as JSON.
package api
