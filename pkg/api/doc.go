// Package api defines the wire-level types shared by the parley service:
// the error taxonomy with its HTTP status mapping, the JSON request and
// response payloads of the resource endpoints, and syntactic validation
// of client-supplied identifiers.
package api
