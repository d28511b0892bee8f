package comms

import "io"

// FrameState tracks a FrameReader through one read.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameReading
	FrameComplete
	FrameError
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameReading:
		return "reading"
	case FrameComplete:
		return "complete"
	case FrameError:
		return "error"
	default:
		return "unknown"
	}
}

// FrameReader collects one newline-terminated response into a reusable buffer.
// The newline takes a slot, so a frame holds at most capacity-1 bytes of text.
type FrameReader struct {
	buf   []byte
	n     int
	state FrameState
}

// NewFrameReader allocates the buffer once. Capacities below 2 are raised to 2.
func NewFrameReader(capacity int) *FrameReader {
	if capacity < 2 {
		capacity = 2
	}
	return &FrameReader{buf: make([]byte, capacity)}
}

// Capacity is the size of the read buffer.
func (f *FrameReader) Capacity() int {
	return len(f.buf)
}

// State is the state left by the last ReadFrame.
func (f *FrameReader) State() FrameState {
	return f.state
}

// ReadFrame reads byte by byte until a newline and returns the text before it.
// Filling the buffer first is a *FramingError; it never reads past capacity.
// Errors from r are returned as they are.
func (f *FrameReader) ReadFrame(r io.ByteReader) (string, error) {
	f.n = 0
	f.state = FrameReading

	for {
		b, err := r.ReadByte()
		if err != nil {
			f.state = FrameError
			return "", err
		}
		if b == Delimiter {
			f.state = FrameComplete
			return string(f.buf[:f.n]), nil
		}

		f.buf[f.n] = b
		f.n++
		if f.n == len(f.buf) {
			f.state = FrameError
			partial := make([]byte, f.n)
			copy(partial, f.buf)
			return "", &FramingError{Capacity: len(f.buf), Partial: partial}
		}
	}
}
