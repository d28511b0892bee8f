//go:build !linux

// Package rfcomm connects to the clock over a Bluetooth RFCOMM stream socket.
package rfcomm

import (
	"github.com/mlsorensen/goclock"
)

func init() {
	goclock.Register("rfcomm", New)
}

// New returns a Dialer that always fails: RFCOMM sockets are only wired up on Linux.
func New(opts goclock.DialOptions) goclock.Dialer {
	return func(peer goclock.Peer) (goclock.Stream, error) {
		return nil, goclock.ErrUnsupportedPlatform
	}
}
