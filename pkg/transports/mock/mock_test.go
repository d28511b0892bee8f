package mock

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"
)

func write(t *testing.T, s goclock.Stream, p string) {
	t.Helper()
	for i := 0; i < len(p); i++ {
		require.NoError(t, s.WriteByte(p[i]))
	}
}

func readAll(s goclock.Stream) string {
	var out []byte
	for {
		b, err := s.ReadByte()
		if err != nil {
			return string(out)
		}
		out = append(out, b)
	}
}

func TestRegistered(t *testing.T) {
	dial, err := goclock.NewDialer("mock", goclock.DialOptions{})
	require.NoError(t, err)

	s, err := dial(goclock.DefaultPeer())
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestFramesDecode(t *testing.T) {
	c := comms.ColorState{Red: 7, Green: 128, Blue: 255}
	got, err := comms.DecodeColor(ColorFrame(c))
	require.NoError(t, err)
	assert.Equal(t, c, got)

	sched := comms.ScheduleState{WakeHour: 6, WakeMinute: 5, SleepHour: 21, SleepMinute: 45}
	gotSched, err := comms.DecodeSchedule(ScheduleFrame(sched))
	require.NoError(t, err)
	assert.Equal(t, sched, gotSched)
}

func TestQueriesReply(t *testing.T) {
	d := NewDevice()
	s, err := d.Dial(goclock.DefaultPeer())
	require.NoError(t, err)

	write(t, s, "?c")
	assert.Equal(t, "Color (r, g, b) is: 255, 160, 064\n", readAll(s))

	write(t, s, "?z")
	assert.Equal(t, "Wake/sleep: 07:30 - 22:00\n", readAll(s))
}

func TestSetCommandsChangeState(t *testing.T) {
	d := NewDevice()
	s, err := d.Dial(goclock.DefaultPeer())
	require.NoError(t, err)

	write(t, s, "c001002003")
	assert.Equal(t, comms.ColorState{Red: 1, Green: 2, Blue: 3}, d.Color())

	write(t, s, "z06002330")
	assert.Equal(t, comms.ScheduleState{WakeHour: 6, SleepHour: 23, SleepMinute: 30}, d.Schedule())

	write(t, s, "t")
	assert.Equal(t, "temperature", d.Display())
	write(t, s, "k")
	assert.Equal(t, "time", d.Display())
	assert.False(t, d.LastSync().IsZero())

	// Out of range channels leave the color alone.
	write(t, s, "c999000000")
	assert.Equal(t, comms.ColorState{Red: 1, Green: 2, Blue: 3}, d.Color())

	assert.Empty(t, readAll(s), "set commands do not answer")
}

func TestFailDials(t *testing.T) {
	d := NewDevice()
	d.FailDials = 2

	for i := 0; i < 2; i++ {
		_, err := d.Dial(goclock.DefaultPeer())
		assert.ErrorIs(t, err, ErrRefused)
	}
	s, err := d.Dial(goclock.DefaultPeer())
	require.NoError(t, err)
	assert.Equal(t, 3, d.Dials())
	assert.True(t, d.Connected())

	_, err = d.Dial(goclock.DefaultPeer())
	assert.ErrorIs(t, err, goclock.ErrAlreadyConnected, "one stream at a time")

	require.NoError(t, s.Close())
	assert.False(t, d.Connected())
}

func TestClosedStream(t *testing.T) {
	d := NewDevice()
	s, err := d.Dial(goclock.DefaultPeer())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.True(t, errors.Is(s.WriteByte('k'), io.ErrClosedPipe))
	_, err = s.ReadByte()
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.ErrorIs(t, s.Close(), io.ErrClosedPipe)
}
