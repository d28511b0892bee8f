// Package clock is the command engine for the bedside clock: it turns each request
// into wire bytes, sends them over a session and parses the framed replies.
package clock

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"
)

// Link is the part of a goclock.Session the engine needs.
type Link interface {
	Connect() goclock.ConnectResult
	Disconnect() error
	IsConnected() bool
	Write(p []byte) error
	ReadByte() (byte, error)
	Abort(cause error)
}

// This line is the compile-time check that *goclock.Session is a Link.
var _ Link = (*goclock.Session)(nil)

// Clock issues commands to the peripheral. Calls block and must not overlap.
type Clock struct {
	link   Link
	notify goclock.Notifier
	frames *comms.FrameReader
}

// New creates a Clock on top of link. readBuffer is the frame capacity; zero uses
// comms.DefaultReadBuffer.
func New(link Link, notify goclock.Notifier, readBuffer int) *Clock {
	if notify == nil {
		notify = goclock.Discard
	}
	if readBuffer <= 0 {
		readBuffer = comms.DefaultReadBuffer
	}
	return &Clock{
		link:   link,
		notify: notify,
		frames: comms.NewFrameReader(readBuffer),
	}
}

// Connect opens the session. See goclock.Session.Connect.
func (c *Clock) Connect() goclock.ConnectResult {
	return c.link.Connect()
}

// Disconnect closes the session. See goclock.Session.Disconnect.
func (c *Clock) Disconnect() error {
	return c.link.Disconnect()
}

// IsConnected reports the session state.
func (c *Clock) IsConnected() bool {
	return c.link.IsConnected()
}

// SetTimeNow sets the clock's time from the controller.
func (c *Clock) SetTimeNow() error {
	return c.send("set time", comms.SetTimeCommand)
}

// SetDateNow sets the clock's date from the controller.
func (c *Clock) SetDateNow() error {
	return c.send("set date", comms.SetDateCommand)
}

// QueryTemperature makes the clock show the temperature. There is no reply.
func (c *Clock) QueryTemperature() error {
	return c.send("temperature", comms.TemperatureCommand)
}

// QueryHumidity makes the clock show the humidity. There is no reply.
func (c *Clock) QueryHumidity() error {
	return c.send("humidity", comms.HumidityCommand)
}

// QueryColor reads the current display color.
func (c *Clock) QueryColor() (comms.ColorState, error) {
	frame, err := c.query("query color", comms.QueryColorCommand)
	if err != nil {
		return comms.ColorState{}, err
	}
	color, err := comms.DecodeColor(frame)
	if err != nil {
		return comms.ColorState{}, fmt.Errorf("query color: %w", err)
	}
	return color, nil
}

// SetColor sets the display color.
func (c *Clock) SetColor(color comms.ColorState) error {
	return c.send("set color", comms.BuildSetColorCommand(color))
}

// QuerySchedule reads the wake/sleep schedule.
func (c *Clock) QuerySchedule() (comms.ScheduleState, error) {
	frame, err := c.query("query schedule", comms.QueryScheduleCommand)
	if err != nil {
		return comms.ScheduleState{}, err
	}
	sched, err := comms.DecodeSchedule(frame)
	if err != nil {
		return comms.ScheduleState{}, fmt.Errorf("query schedule: %w", err)
	}
	return sched, nil
}

// SetWake moves the wake time, keeping the sleep time from prev, which must come
// from QuerySchedule in the same interaction. A wake time at or after sleep is
// rejected before anything is sent.
func (c *Clock) SetWake(prev comms.ScheduleState, hour, minute int) error {
	if err := comms.CheckWake(prev, hour, minute); err != nil {
		return c.reject("set wake", err)
	}
	return c.send("set wake", comms.BuildSetWakeCommand(prev, hour, minute))
}

// SetSleep moves the sleep time, keeping the wake time from prev. A sleep time at or
// before wake is rejected before anything is sent.
func (c *Clock) SetSleep(prev comms.ScheduleState, hour, minute int) error {
	if err := comms.CheckSleep(prev, hour, minute); err != nil {
		return c.reject("set sleep", err)
	}
	return c.send("set sleep", comms.BuildSetSleepCommand(prev, hour, minute))
}

// SetWakeTime queries the schedule and then sets the wake time against it.
func (c *Clock) SetWakeTime(hour, minute int) error {
	prev, err := c.QuerySchedule()
	if err != nil {
		return err
	}
	return c.SetWake(prev, hour, minute)
}

// SetSleepTime queries the schedule and then sets the sleep time against it.
func (c *Clock) SetSleepTime(hour, minute int) error {
	prev, err := c.QuerySchedule()
	if err != nil {
		return err
	}
	return c.SetSleep(prev, hour, minute)
}

func (c *Clock) send(name string, cmd []byte) error {
	log.Debug().Str("cmd", name).Bytes("wire", cmd).Msg("sending")
	if err := c.link.Write(cmd); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (c *Clock) query(name string, cmd []byte) (string, error) {
	if err := c.send(name, cmd); err != nil {
		return "", err
	}
	frame, err := c.frames.ReadFrame(c.link)
	if err != nil {
		log.Warn().Err(err).Str("cmd", name).Str("state", c.frames.State().String()).Msg("response read failed")
		var overrun *comms.FramingError
		if errors.As(err, &overrun) {
			// The rest of the reply is still in the stream; every later frame would be off by one.
			c.link.Abort(err)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	log.Debug().Str("cmd", name).Str("frame", frame).Msg("received")
	return frame, nil
}

func (c *Clock) reject(name string, err error) error {
	log.Info().Err(err).Str("cmd", name).Msg("rejected")
	if v, ok := err.(*comms.ValidationError); ok {
		c.notify(v.Message)
	}
	return fmt.Errorf("%s: %w", name, err)
}
