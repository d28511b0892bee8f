package goclock

import (
	"errors"
	"fmt"
)

// Sentinel errors for the transport session.
var (
	// ErrNotConnected indicates an operation was attempted without a live session.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called on a live session.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrReadTimeout indicates a blocking read exceeded the configured read timeout.
	// It is not part of the peripheral's contract; it only exists when a timeout is set.
	ErrReadTimeout = errors.New("read timed out")

	// ErrUnknownTransport indicates no transport was registered under the requested name.
	ErrUnknownTransport = errors.New("unknown transport")

	// ErrUnsupportedPlatform indicates the transport cannot run on this OS.
	ErrUnsupportedPlatform = errors.New("transport not supported on this platform")

	// ErrServiceNotAdvertised indicates BlueZ knows the peer but not with the serial port service.
	ErrServiceNotAdvertised = errors.New("peer does not advertise the service")
)

// ConnectionError reports that the peer could not be reached after every attempt.
type ConnectionError struct {
	Peer     string
	Attempts int
	Cause    error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not connect to %s after %d attempt(s): %v", e.Peer, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("could not connect to %s after %d attempt(s)", e.Peer, e.Attempts)
}

// Unwrap returns the error of the last attempt.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// IOError reports a read or write fault on an established stream.
type IOError struct {
	Op    string // "read", "write" or "close"
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *IOError) Unwrap() error {
	return e.Cause
}
