// Package comms provides the wire format of the clock: command encodings,
// newline-framed responses and their fixed-width fields.
package comms

// Command bytes. Writes carry no terminator; the clock recognizes each command
// by its leading byte and fixed length.
const (
	CmdSetTime     byte = 'k'
	CmdSetDate     byte = 'm'
	CmdTemperature byte = 't'
	CmdHumidity    byte = 'h'
	CmdColor       byte = 'c'
	CmdSchedule    byte = 'z'
	CmdQuery       byte = '?'
)

// Delimiter ends every response frame.
const Delimiter byte = '\n'

// DefaultReadBuffer holds any documented response with room to spare.
const DefaultReadBuffer = 256

// Field layout of the color response, e.g. "Color (r, g, b) is: 255, 016, 008".
const (
	ColorRedOffset   = 20
	ColorGreenOffset = 25
	ColorBlueOffset  = 30
	ColorFieldLen    = 3
)

// Field layout of the schedule response, e.g. "Wake/sleep: 07:30 - 22:00".
const (
	WakeHourOffset    = 12
	WakeMinuteOffset  = 15
	SleepHourOffset   = 20
	SleepMinuteOffset = 23
	TimeFieldLen      = 2
)

var (
	SetTimeCommand       = BuildSetTimeCommand()
	SetDateCommand       = BuildSetDateCommand()
	TemperatureCommand   = BuildTemperatureCommand()
	HumidityCommand      = BuildHumidityCommand()
	QueryColorCommand    = BuildQueryColorCommand()
	QueryScheduleCommand = BuildQueryScheduleCommand()
)
