package client

import "os"

// debugLoggingRequested reports whether INTEL_DEBUG=true or DEBUG=true is
// set in the environment.
func debugLoggingRequested() bool {
	return os.Getenv("INTEL_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
