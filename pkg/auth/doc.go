// Package auth implements the authentication stages of the request
// pipeline: resolving an optional HTTP Basic credential to a verified
// subject, and enforcing that a subject is present on protected routes.
//
// Authentication and enforcement are separate stages so the same
// pipeline position can serve both public and protected routes: the
// authenticator never rejects a request for missing or wrong
// credentials, it only resolves identity. Enforcement is attached
// per route.
package auth
