package goclock

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier receives short human-readable status messages meant for the user,
// e.g. "Connected to: HC-05" or "Device is not connected".
type Notifier func(text string)

// Discard is a Notifier that drops every message.
func Discard(string) {}

// Stream is an open, connection-oriented byte stream to the peripheral.
// Implementations are used by a single goroutine at a time.
type Stream interface {
	io.ByteReader
	io.ByteWriter
	io.Closer
}

// Dialer opens a new Stream to the peer. Every call is one connection attempt.
type Dialer func(peer Peer) (Stream, error)

// DialOptions are passed to a transport Factory when the dialer is built.
type DialOptions struct {
	// ReadTimeout bounds a single blocking ReadByte. Zero blocks forever.
	ReadTimeout time.Duration
}

// --- Transport Registry ---

// Factory is a function that creates a Dialer for one transport kind.
type Factory func(opts DialOptions) Dialer

var (
	registry = make(map[string]Factory)
	regLock  = sync.RWMutex{}
)

// Register makes a transport available by name. It should be called from the
// init() function of the transport's package, e.g. "rfcomm" or "mock".
func Register(name string, factory Factory) {
	regLock.Lock()
	defer regLock.Unlock()

	if _, found := registry[name]; found {
		log.Warn().Str("transport", name).Msg("transport implementation is being overwritten")
	}
	registry[name] = factory
}

// NewDialer finds the registered transport with the given name and builds a Dialer from it.
func NewDialer(name string, opts DialOptions) (Dialer, error) {
	regLock.RLock()
	defer regLock.RUnlock()

	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, name)
	}
	return factory(opts), nil
}

// Transports lists the registered transport names in sorted order.
func Transports() []string {
	regLock.RLock()
	defer regLock.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
