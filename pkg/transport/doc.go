// Package transport provides the HTTP server lifecycle and the
// cross-cutting pipeline stages that are not tied to authentication or
// auditing: content-type enforcement, request correlation ids,
// structured request logging, and panic recovery.
//
// Stages are plain func(http.Handler) http.Handler middleware. The
// router applies them in a fixed order; each stage either passes the
// request through (possibly with an enriched context) or writes a
// terminal error response and stops the chain.
package transport
