//go:build linux

// Package rfcomm connects to the clock over a Bluetooth RFCOMM stream socket.
package rfcomm

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"github.com/mlsorensen/goclock"
)

func init() {
	goclock.Register("rfcomm", New)
}

// Transport dials RFCOMM sockets.
type Transport struct {
	readTimeout time.Duration
}

// New creates a Dialer for RFCOMM.
func New(opts goclock.DialOptions) goclock.Dialer {
	t := &Transport{readTimeout: opts.ReadTimeout}
	return t.Dial
}

// Dial opens a stream socket to the peer's RFCOMM channel.
func (t *Transport) Dial(peer goclock.Peer) (goclock.Stream, error) {
	if err := goclock.TryEnableAdapter(); err != nil {
		return nil, err
	}
	if err := goclock.VerifyService(peer); err != nil {
		return nil, err
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, fmt.Errorf("rfcomm socket: %w", err)
	}

	// Both bluetooth.MAC and the kernel's bdaddr are little-endian.
	sa := &unix.SockaddrRFCOMM{Addr: [6]uint8(peer.MAC), Channel: peer.Channel}
	log.Debug().Str("peer", peer.Address).Uint8("channel", peer.Channel).Str("service", peer.ServiceUUID.String()).Msg("dialing rfcomm")
	if err := unix.Connect(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("rfcomm connect %s channel %d: %w", peer.Address, peer.Channel, err)
	}

	if t.readTimeout > 0 {
		tv := unix.NsecToTimeval(t.readTimeout.Nanoseconds())
		if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("rfcomm read timeout: %w", err)
		}
	}

	return &stream{fd: fd}, nil
}

// stream is an open RFCOMM socket.
type stream struct {
	fd  int
	one [1]byte
}

func (s *stream) WriteByte(b byte) error {
	s.one[0] = b
	return writeOne(func(p []byte) (int, error) { return unix.Write(s.fd, p) }, s.one[:])
}

// writeOne retries interrupted writes of a single byte. A write that moves nothing
// without an error is a short write, not a reason to spin.
func writeOne(write func([]byte) (int, error), one []byte) error {
	for {
		n, err := write(one)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return err
		case n == 0:
			return io.ErrShortWrite
		}
		return nil
	}
}

func (s *stream) ReadByte() (byte, error) {
	for {
		n, err := unix.Read(s.fd, s.one[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
			return 0, goclock.ErrReadTimeout
		case err != nil:
			return 0, err
		case n == 0:
			return 0, io.EOF
		}
		return s.one[0], nil
	}
}

func (s *stream) Close() error {
	return unix.Close(s.fd)
}
