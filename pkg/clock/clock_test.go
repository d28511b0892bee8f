package clock_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"
	"github.com/mlsorensen/goclock/pkg/transports/mock"
)

// recordingLink is a connected Link that records every write and replays reply.
type recordingLink struct {
	written   []byte
	reply     []byte
	writeErr  error
	connected bool
	aborted   []error
}

func (l *recordingLink) Connect() goclock.ConnectResult {
	l.connected = true
	return goclock.ConnectResult{Status: goclock.ConnectConnected, Attempts: 1}
}

func (l *recordingLink) Disconnect() error {
	l.connected = false
	return nil
}

func (l *recordingLink) IsConnected() bool { return l.connected }

func (l *recordingLink) Abort(cause error) {
	l.aborted = append(l.aborted, cause)
	l.connected = false
}

func (l *recordingLink) Write(p []byte) error {
	if !l.connected {
		return goclock.ErrNotConnected
	}
	if l.writeErr != nil {
		return l.writeErr
	}
	l.written = append(l.written, p...)
	return nil
}

func (l *recordingLink) ReadByte() (byte, error) {
	if !l.connected {
		return 0, goclock.ErrNotConnected
	}
	if len(l.reply) == 0 {
		return 0, io.EOF
	}
	b := l.reply[0]
	l.reply = l.reply[1:]
	return b, nil
}

type notes []string

func (n *notes) notify(text string) { *n = append(*n, text) }

var schedule0730to2200 = comms.ScheduleState{WakeHour: 7, WakeMinute: 30, SleepHour: 22, SleepMinute: 0}

func TestFireAndForgetCommandBytes(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *clock.Clock) error
		expected string
	}{
		{"SetTimeNow", (*clock.Clock).SetTimeNow, "k"},
		{"SetDateNow", (*clock.Clock).SetDateNow, "m"},
		{"QueryTemperature", (*clock.Clock).QueryTemperature, "t"},
		{"QueryHumidity", (*clock.Clock).QueryHumidity, "h"},
		{"SetColor", func(c *clock.Clock) error {
			return c.SetColor(comms.ColorState{Red: 255, Green: 16, Blue: 8})
		}, "c255016008"},
		{"SetWake", func(c *clock.Clock) error {
			return c.SetWake(schedule0730to2200, 8, 0)
		}, "z08002200"},
		{"SetSleep", func(c *clock.Clock) error {
			return c.SetSleep(schedule0730to2200, 23, 15)
		}, "z07302315"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := &recordingLink{connected: true}
			c := clock.New(link, nil, 0)
			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.expected, string(link.written))
		})
	}
}

func TestQueryColorFrame(t *testing.T) {
	link := &recordingLink{connected: true, reply: []byte("Color (r, g, b) is: 255, 016, 008\n")}
	c := clock.New(link, nil, 0)

	color, err := c.QueryColor()
	require.NoError(t, err)
	assert.Equal(t, "?c", string(link.written))
	assert.Equal(t, comms.ColorState{Red: 255, Green: 16, Blue: 8}, color)
}

func TestQueryScheduleFrame(t *testing.T) {
	link := &recordingLink{connected: true, reply: []byte("Wake/sleep: 07:30 - 22:00\n")}
	c := clock.New(link, nil, 0)

	s, err := c.QuerySchedule()
	require.NoError(t, err)
	assert.Equal(t, "?z", string(link.written))
	assert.Equal(t, schedule0730to2200, s)
}

func TestSetWakeRejectedBeforeTransmit(t *testing.T) {
	var n notes
	link := &recordingLink{connected: true}
	c := clock.New(link, n.notify, 0)

	// 23:00 is 1380 minutes, at or after sleep at 1320.
	err := c.SetWake(schedule0730to2200, 23, 0)
	var ve *comms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, link.written, "nothing may be sent")
	assert.Equal(t, notes{comms.MsgWakeAfterSleep}, n)

	// Equal to sleep is rejected too.
	require.Error(t, c.SetWake(schedule0730to2200, 22, 0))
	assert.Empty(t, link.written)
}

func TestSetSleepRejectsWakeBoundary(t *testing.T) {
	var n notes
	link := &recordingLink{connected: true}
	c := clock.New(link, n.notify, 0)

	err := c.SetSleep(schedule0730to2200, 7, 30)
	assert.True(t, comms.IsValidation(err))
	assert.Empty(t, link.written)
	assert.Equal(t, notes{comms.MsgSleepBeforeWake}, n)

	require.NoError(t, c.SetSleep(schedule0730to2200, 7, 31))
	assert.Equal(t, "z07300731", string(link.written))
}

func TestQueryFramingError(t *testing.T) {
	link := &recordingLink{connected: true, reply: []byte(strings.Repeat("x", 300))}
	c := clock.New(link, nil, 64)

	_, err := c.QueryColor()
	var fe *comms.FramingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 64, fe.Capacity)
	assert.Len(t, link.reply, 300-64, "must not read past the buffer")
	assert.Len(t, link.aborted, 1)
	assert.False(t, c.IsConnected())
}

func TestQueryAfterOverrunDoesNotReadStaleBytes(t *testing.T) {
	link := &recordingLink{
		connected: true,
		reply:     []byte("xxxxxxxxxxxxxxxxxxxx\nColor (r, g, b) is: 001, 002, 003\n"),
	}
	c := clock.New(link, nil, 16)

	_, err := c.QueryColor()
	var fe *comms.FramingError
	require.ErrorAs(t, err, &fe)
	assert.False(t, c.IsConnected())

	_, err = c.QueryColor()
	assert.ErrorIs(t, err, goclock.ErrNotConnected)
	assert.Equal(t, "?c", string(link.written), "second query is never sent")
}

func TestParseErrorKeepsLink(t *testing.T) {
	link := &recordingLink{connected: true, reply: []byte("garbage\n")}
	c := clock.New(link, nil, 0)

	_, err := c.QueryColor()
	require.Error(t, err)
	assert.Empty(t, link.aborted)
	assert.True(t, c.IsConnected())
}

func TestQueryParseError(t *testing.T) {
	link := &recordingLink{connected: true, reply: []byte("ERR\n")}
	c := clock.New(link, nil, 0)

	_, err := c.QuerySchedule()
	var pe *comms.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestWriteErrorSurfaces(t *testing.T) {
	boom := &goclock.IOError{Op: "write", Cause: errors.New("broken pipe")}
	link := &recordingLink{connected: true, writeErr: boom}
	c := clock.New(link, nil, 0)

	err := c.SetTimeNow()
	var ioErr *goclock.IOError
	assert.ErrorAs(t, err, &ioErr)
}

// --- against the simulated clock ---

func newMockClock(t *testing.T) (*clock.Clock, *mock.Device, *notes) {
	t.Helper()
	dev := mock.NewDevice()
	n := &notes{}
	peer := goclock.DefaultPeer()
	peer.Name = "HC-05"
	session := goclock.NewSession(goclock.SessionConfig{Peer: peer, Dialer: dev.Dial, Notify: n.notify})
	c := clock.New(session, n.notify, comms.DefaultReadBuffer)
	require.Equal(t, goclock.ConnectConnected, c.Connect().Status)
	return c, dev, n
}

func TestMockColorRoundTrip(t *testing.T) {
	c, dev, _ := newMockClock(t)

	for v := 0; v <= 255; v++ {
		want := comms.ColorState{Red: uint8(v), Green: uint8(255 - v), Blue: uint8(v * 7)}
		require.NoError(t, c.SetColor(want))
		assert.Equal(t, want, dev.Color())

		got, err := c.QueryColor()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestMockScheduleFlow(t *testing.T) {
	c, dev, n := newMockClock(t)
	dev.SetSchedule(schedule0730to2200)

	require.NoError(t, c.SetWakeTime(8, 0))
	assert.Equal(t, comms.ScheduleState{WakeHour: 8, WakeMinute: 0, SleepHour: 22, SleepMinute: 0}, dev.Schedule())

	require.NoError(t, c.SetSleepTime(23, 30))
	assert.Equal(t, comms.ScheduleState{WakeHour: 8, WakeMinute: 0, SleepHour: 23, SleepMinute: 30}, dev.Schedule())

	err := c.SetWakeTime(23, 30)
	assert.True(t, comms.IsValidation(err))
	assert.Equal(t, 8, dev.Schedule().WakeHour)
	assert.Contains(t, *n, comms.MsgWakeAfterSleep)
}

func TestMockDisplayCommands(t *testing.T) {
	c, dev, _ := newMockClock(t)

	require.NoError(t, c.QueryTemperature())
	assert.Equal(t, "temperature", dev.Display())
	require.NoError(t, c.QueryHumidity())
	assert.Equal(t, "humidity", dev.Display())
	require.NoError(t, c.SetDateNow())
	assert.Equal(t, "date", dev.Display())
	require.NoError(t, c.SetTimeNow())
	assert.Equal(t, "time", dev.Display())
	assert.False(t, dev.LastSync().IsZero())
}

func TestMockConnectLifecycle(t *testing.T) {
	c, dev, n := newMockClock(t)
	assert.Equal(t, []string{"Connected to: HC-05"}, []string(*n))

	c.Connect()
	assert.Equal(t, 1, dev.Dials())
	assert.Equal(t, "Device is already connected", (*n)[len(*n)-1])

	require.NoError(t, c.Disconnect())
	assert.False(t, dev.Connected())

	assert.ErrorIs(t, c.Disconnect(), goclock.ErrNotConnected)
	assert.Equal(t, "Device is not connected", (*n)[len(*n)-1])

	_, err := c.QueryColor()
	assert.ErrorIs(t, err, goclock.ErrNotConnected)
}

func TestReadWithoutReplyResetsSession(t *testing.T) {
	dev := mock.NewDevice()
	session := goclock.NewSession(goclock.SessionConfig{Peer: goclock.DefaultPeer(), Dialer: dev.Dial})
	c := clock.New(session, nil, 0)
	require.True(t, c.Connect().OK())

	// The simulation queues nothing for a time sync, so reading hits EOF.
	require.NoError(t, c.SetTimeNow())
	_, err := comms.NewFrameReader(8).ReadFrame(session)
	var ioErr *goclock.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, c.IsConnected())
	assert.False(t, dev.Connected())
}
