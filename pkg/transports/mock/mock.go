// Package mock provides a simulated clock reachable through the goclock transport
// registry. It is intended for development and testing when the hardware is not around.
package mock

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"
)

// This init function registers the simulated clock with the central registry.
// To use it, you must explicitly import this package.
func init() {
	goclock.Register("mock", New)
}

// ErrRefused is returned by Dial while FailDials is above zero.
var ErrRefused = errors.New("mock: connection refused")

// Device is the simulated clock. Its state survives across connections.
type Device struct {
	mu sync.Mutex

	color    comms.ColorState
	schedule comms.ScheduleState
	clock    time.Time
	display  string

	// FailDials makes the next N dials fail.
	FailDials int
	dials     int
	open      *stream
}

// New creates a Dialer backed by a fresh simulated clock.
func New(opts goclock.DialOptions) goclock.Dialer {
	return NewDevice().Dial
}

// NewDevice creates a simulated clock with a warm white color and a 07:30-22:00 schedule.
func NewDevice() *Device {
	return &Device{
		color:    comms.ColorState{Red: 255, Green: 160, Blue: 64},
		schedule: comms.ScheduleState{WakeHour: 7, WakeMinute: 30, SleepHour: 22},
	}
}

// Dial opens a stream to the simulated clock.
func (d *Device) Dial(peer goclock.Peer) (goclock.Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dials++
	if d.FailDials > 0 {
		d.FailDials--
		log.Debug().Str("peer", peer.Address).Msg("MOCK: refusing connection")
		return nil, ErrRefused
	}
	if d.open != nil {
		return nil, fmt.Errorf("mock: %w", goclock.ErrAlreadyConnected)
	}

	log.Debug().Str("peer", peer.Address).Msg("MOCK: connected")
	d.open = &stream{dev: d}
	return d.open, nil
}

// Dials counts every Dial call, failed or not.
func (d *Device) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// Connected reports whether a stream is open.
func (d *Device) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open != nil
}

// Color returns the simulated display color.
func (d *Device) Color() comms.ColorState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.color
}

// SetColor changes the color the clock reports.
func (d *Device) SetColor(c comms.ColorState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.color = c
}

// Schedule returns the simulated wake/sleep schedule.
func (d *Device) Schedule() comms.ScheduleState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.schedule
}

// SetSchedule changes the schedule the clock reports.
func (d *Device) SetSchedule(s comms.ScheduleState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.schedule = s
}

// Display is what the clock last showed in response to a display command
// ("time", "date", "temperature" or "humidity").
func (d *Device) Display() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.display
}

// LastSync is when the clock last took the controller's time or date.
func (d *Device) LastSync() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock
}

// ColorFrame formats a color response the way the clock sends it, without the newline.
func ColorFrame(c comms.ColorState) string {
	return fmt.Sprintf("Color (r, g, b) is: %03d, %03d, %03d", c.Red, c.Green, c.Blue)
}

// ScheduleFrame formats a schedule response, without the newline.
func ScheduleFrame(s comms.ScheduleState) string {
	return fmt.Sprintf("Wake/sleep: %02d:%02d - %02d:%02d", s.WakeHour, s.WakeMinute, s.SleepHour, s.SleepMinute)
}

// stream is one connection to the Device. Bytes written are decoded as commands;
// replies are queued for ReadByte.
type stream struct {
	dev     *Device
	pending []byte
	out     []byte
	closed  bool
}

func (s *stream) WriteByte(b byte) error {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	s.pending = append(s.pending, b)
	s.dispatch()
	return nil
}

// ReadByte returns io.EOF when nothing is queued: the simulation never blocks.
func (s *stream) ReadByte() (byte, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()

	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if len(s.out) == 0 {
		return 0, io.EOF
	}
	b := s.out[0]
	s.out = s.out[1:]
	return b, nil
}

func (s *stream) Close() error {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	s.closed = true
	if s.dev.open == s {
		s.dev.open = nil
	}
	log.Debug().Msg("MOCK: disconnected")
	return nil
}

// dispatch runs once the pending bytes form a complete command. Unknown leading bytes
// are dropped, as the firmware does.
func (s *stream) dispatch() {
	p := s.pending
	d := s.dev
	switch p[0] {
	case comms.CmdSetTime:
		d.clock = time.Now()
		d.display = "time"
	case comms.CmdSetDate:
		d.clock = time.Now()
		d.display = "date"
	case comms.CmdTemperature:
		d.display = "temperature"
	case comms.CmdHumidity:
		d.display = "humidity"
	case comms.CmdQuery:
		if len(p) < 2 {
			return
		}
		switch p[1] {
		case comms.CmdColor:
			s.reply(ColorFrame(d.color))
		case comms.CmdSchedule:
			s.reply(ScheduleFrame(d.schedule))
		}
	case comms.CmdColor:
		if len(p) < 10 {
			return
		}
		if c, ok := parseColor(p[1:10]); ok {
			d.color = c
		}
	case comms.CmdSchedule:
		if len(p) < 9 {
			return
		}
		if sched, ok := parseSchedule(p[1:9]); ok {
			d.schedule = sched
		}
	default:
		log.Debug().Uint8("byte", p[0]).Msg("MOCK: ignoring unknown command byte")
	}
	s.pending = s.pending[:0]
}

func (s *stream) reply(frame string) {
	s.out = append(s.out, frame...)
	s.out = append(s.out, comms.Delimiter)
}

func parseColor(digits []byte) (comms.ColorState, bool) {
	var ch [3]int
	for i := range ch {
		v, err := comms.ExtractInt(string(digits), i*3, 3)
		if err != nil || v > 255 {
			return comms.ColorState{}, false
		}
		ch[i] = v
	}
	return comms.ColorState{Red: uint8(ch[0]), Green: uint8(ch[1]), Blue: uint8(ch[2])}, true
}

func parseSchedule(digits []byte) (comms.ScheduleState, bool) {
	var f [4]int
	for i := range f {
		v, err := comms.ExtractInt(string(digits), i*2, 2)
		if err != nil {
			return comms.ScheduleState{}, false
		}
		f[i] = v
	}
	return comms.ScheduleState{WakeHour: f[0], WakeMinute: f[1], SleepHour: f[2], SleepMinute: f[3]}, true
}
