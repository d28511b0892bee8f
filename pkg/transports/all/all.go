// Package all is a convenience wrapper that registers every transport.
// Importing this package lets goclock.NewDialer find "rfcomm" and "mock".
package all

// Import each implementation package for its side-effects (the init() function).
import (
	_ "github.com/mlsorensen/goclock/pkg/transports/mock"
	_ "github.com/mlsorensen/goclock/pkg/transports/rfcomm"
)
