package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"
)

// errQuit ends the command loop.
var errQuit = errors.New("quit")

const helpText = `Commands:
  connect              connect to the clock
  disconnect           close the connection
  status               show the connection state
  time                 set the clock's time to now
  date                 set the clock's date to today
  temp                 show the temperature on the clock
  humid                show the humidity on the clock
  color                read the current color
  color R G B          set the color, each channel 0-255
  color #rrggbb        set the color from a hex code
  schedule             read the wake/sleep schedule
  wake HH:MM           set the wake time
  sleep HH:MM          set the sleep time
  help                 show this text
  quit                 leave`

// controller maps command lines onto clock calls. It plays the part of the button
// panel: every line is one button press, run to completion before the next.
type controller struct {
	// mu keeps the signal handler from closing the session under a running command.
	mu    sync.Mutex
	clock *clock.Clock
	out   io.Writer
}

// run executes one command line. Unknown commands and bad arguments are errors;
// errQuit means the user asked to leave.
func (c *controller) run(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	case "connect":
		c.clock.Connect()
		return nil
	case "disconnect":
		// The session reports "Device is not connected" itself.
		if err := c.clock.Disconnect(); err != nil && !errors.Is(err, goclock.ErrNotConnected) {
			return err
		}
		return nil
	case "status":
		if c.clock.IsConnected() {
			fmt.Fprintln(c.out, "connected")
		} else {
			fmt.Fprintln(c.out, "disconnected")
		}
		return nil
	}

	if !c.clock.IsConnected() {
		return errors.New("not connected, run 'connect' first")
	}

	switch cmd {
	case "time":
		return c.clock.SetTimeNow()
	case "date":
		return c.clock.SetDateNow()
	case "temp", "temperature":
		return c.clock.QueryTemperature()
	case "humid", "humidity":
		return c.clock.QueryHumidity()
	case "color", "colour":
		return c.color(args)
	case "schedule":
		s, err := c.clock.QuerySchedule()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "wake %02d:%02d  sleep %02d:%02d\n", s.WakeHour, s.WakeMinute, s.SleepHour, s.SleepMinute)
		return nil
	case "wake", "sleep":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s HH:MM", cmd)
		}
		h, m, err := parseClockTime(args[0])
		if err != nil {
			return err
		}
		if cmd == "wake" {
			err = c.clock.SetWakeTime(h, m)
		} else {
			err = c.clock.SetSleepTime(h, m)
		}
		if comms.IsValidation(err) {
			// Already shown through the notifier.
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

// shutdown waits for the running command, then closes the session if it is open.
func (c *controller) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clock.IsConnected() {
		if err := c.clock.Disconnect(); err != nil {
			log.Warn().Err(err).Msg("Error during disconnect")
		}
	}
}

func (c *controller) color(args []string) error {
	switch len(args) {
	case 0:
		color, err := c.clock.QueryColor()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s %s\n", color, color.Hex())
		return nil
	case 1:
		color, err := parseHexColor(args[0])
		if err != nil {
			return err
		}
		return c.clock.SetColor(color)
	case 3:
		var ch [3]uint8
		for i, a := range args {
			v, err := strconv.ParseUint(a, 10, 8)
			if err != nil {
				return fmt.Errorf("color channel %q must be 0-255", a)
			}
			ch[i] = uint8(v)
		}
		return c.clock.SetColor(comms.ColorState{Red: ch[0], Green: ch[1], Blue: ch[2]})
	default:
		return errors.New("usage: color [R G B | #rrggbb]")
	}
}

// parseClockTime accepts "7:30", "07:30" or "0730".
func parseClockTime(s string) (hour, minute int, err error) {
	hs, ms, found := strings.Cut(s, ":")
	if !found {
		if len(s) != 4 {
			return 0, 0, fmt.Errorf("time %q must be HH:MM", s)
		}
		hs, ms = s[:2], s[2:]
	}
	hour, err = strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour %q must be 0-23", hs)
	}
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute %q must be 0-59", ms)
	}
	return hour, minute, nil
}

// parseHexColor accepts "#rrggbb" or "rrggbb".
func parseHexColor(s string) (comms.ColorState, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return comms.ColorState{}, fmt.Errorf("color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return comms.ColorState{}, fmt.Errorf("color %q must be #rrggbb", s)
	}
	return comms.ColorState{Red: uint8(v >> 16), Green: uint8(v >> 8), Blue: uint8(v)}, nil
}
