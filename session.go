package goclock

import (
	"github.com/rs/zerolog/log"
)

// DefaultConnectAttempts is how many times Connect tries the peer before giving up.
const DefaultConnectAttempts = 3

// State is the connection state of a Session.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// ConnectStatus is the outcome of a Connect call.
type ConnectStatus int

const (
	// ConnectConnected means a new stream was opened.
	ConnectConnected ConnectStatus = iota
	// ConnectAlreadyConnected means the session was live and nothing was opened.
	ConnectAlreadyConnected
	// ConnectExhausted means every attempt failed and the session is disconnected.
	ConnectExhausted
)

func (s ConnectStatus) String() string {
	switch s {
	case ConnectConnected:
		return "connected"
	case ConnectAlreadyConnected:
		return "already connected"
	default:
		return "exhausted retries"
	}
}

// ConnectResult reports what Connect did. Err is a *ConnectionError when Status is
// ConnectExhausted and nil otherwise.
type ConnectResult struct {
	Status   ConnectStatus
	Attempts int
	Err      error
}

// OK is true when the session is live after the call.
func (r ConnectResult) OK() bool {
	return r.Status != ConnectExhausted
}

// Session owns the stream to the peripheral. It does no locking: callers issue one
// operation at a time.
type Session struct {
	peer     Peer
	dial     Dialer
	notify   Notifier
	attempts int

	stream Stream
	state  State
}

// SessionConfig configures NewSession.
type SessionConfig struct {
	Peer   Peer
	Dialer Dialer
	// Notify receives user-facing status messages. Nil discards them.
	Notify Notifier
	// ConnectAttempts defaults to DefaultConnectAttempts.
	ConnectAttempts int
}

// NewSession creates a disconnected session. Nothing is dialed until Connect.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Notify == nil {
		cfg.Notify = Discard
	}
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = DefaultConnectAttempts
	}
	return &Session{
		peer:     cfg.Peer,
		dial:     cfg.Dialer,
		notify:   cfg.Notify,
		attempts: cfg.ConnectAttempts,
	}
}

// Peer returns the peer this session talks to.
func (s *Session) Peer() Peer {
	return s.peer
}

// State returns the current connection state.
func (s *Session) State() State {
	return s.state
}

// IsConnected reports whether a stream is open.
func (s *Session) IsConnected() bool {
	return s.state == Connected
}

// Connect opens a stream to the peer, retrying immediately on failure. Every failed
// attempt is reported through the notifier; it never aborts the loop.
func (s *Session) Connect() ConnectResult {
	if s.state == Connected {
		s.notify("Device is already connected")
		return ConnectResult{Status: ConnectAlreadyConnected}
	}

	name := s.peer.DisplayName()
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		stream, err := s.dial(s.peer)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("peer", s.peer.Address).Int("attempt", attempt).Msg("connect attempt failed")
			s.notify("Could not connect to device")
			continue
		}

		s.stream = stream
		s.state = Connected
		log.Info().Str("peer", s.peer.Address).Str("name", name).Int("attempt", attempt).Msg("connected")
		s.notify("Connected to: " + name)
		return ConnectResult{Status: ConnectConnected, Attempts: attempt}
	}

	return ConnectResult{
		Status:   ConnectExhausted,
		Attempts: s.attempts,
		Err:      &ConnectionError{Peer: name, Attempts: s.attempts, Cause: lastErr},
	}
}

// Disconnect closes the stream. On a disconnected session it reports
// "Device is not connected" and returns ErrNotConnected.
func (s *Session) Disconnect() error {
	if s.state != Connected {
		s.notify("Device is not connected")
		return ErrNotConnected
	}

	err := s.stream.Close()
	s.stream = nil
	s.state = Disconnected
	if err != nil {
		log.Warn().Err(err).Str("peer", s.peer.Address).Msg("close failed")
		return &IOError{Op: "close", Cause: err}
	}

	log.Info().Str("peer", s.peer.Address).Msg("disconnected")
	s.notify("Device is now disconnected")
	return nil
}

// WriteByte writes one byte to the open stream.
func (s *Session) WriteByte(b byte) error {
	if s.state != Connected {
		return ErrNotConnected
	}
	if err := s.stream.WriteByte(b); err != nil {
		s.reset(err)
		return &IOError{Op: "write", Cause: err}
	}
	return nil
}

// Write sends p one byte at a time.
func (s *Session) Write(p []byte) error {
	for _, b := range p {
		if err := s.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// ReadByte blocks until one byte is available.
func (s *Session) ReadByte() (byte, error) {
	if s.state != Connected {
		return 0, ErrNotConnected
	}
	b, err := s.stream.ReadByte()
	if err != nil {
		s.reset(err)
		return 0, &IOError{Op: "read", Cause: err}
	}
	return b, nil
}

// Abort drops the stream after a protocol fault the caller detected, such as a reply
// that overran the frame buffer. Unread bytes go with it. Like an I/O fault, the session
// is left Disconnected and nothing is redialed.
func (s *Session) Abort(cause error) {
	if s.state != Connected {
		return
	}
	s.reset(cause)
}

// reset drops a stream that faulted during use. Reconnecting is left to the caller.
func (s *Session) reset(cause error) {
	log.Warn().Err(cause).Str("peer", s.peer.Address).Msg("stream fault, session reset")
	if err := s.stream.Close(); err != nil {
		log.Debug().Err(err).Msg("close after fault")
	}
	s.stream = nil
	s.state = Disconnected
}
