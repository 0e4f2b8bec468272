// Package transport implements the HTTP layer of the SDK.
//
// Base resolves request paths against a fixed base URL, merges default
// headers, applies the connect/read timeout pair and returns the buffered
// response without interpreting its status. Authenticated wraps any
// Requester with a cached authorization header obtained from an
// Authenticator, and re-authenticates and retries exactly once when a
// request comes back 401 or 403.
package transport
