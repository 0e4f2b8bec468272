package types

import "errors"

// ErrNotFound is returned when the requested file does not exist (HTTP 404).
var ErrNotFound = errors.New("resource not found")

// ErrNotModified is returned by conditional downloads when the server
// answers 304 for the supplied validators.
var ErrNotModified = errors.New("resource not modified")
