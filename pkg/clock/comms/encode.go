package comms

import "fmt"

// BuildSetTimeCommand sets the clock to the controller's current time.
func BuildSetTimeCommand() []byte {
	return []byte{CmdSetTime}
}

// BuildSetDateCommand sets the clock to the controller's current date.
func BuildSetDateCommand() []byte {
	return []byte{CmdSetDate}
}

// BuildTemperatureCommand makes the clock show its temperature reading.
func BuildTemperatureCommand() []byte {
	return []byte{CmdTemperature}
}

// BuildHumidityCommand makes the clock show its humidity reading.
func BuildHumidityCommand() []byte {
	return []byte{CmdHumidity}
}

// BuildQueryColorCommand asks for the current color ("?c").
func BuildQueryColorCommand() []byte {
	return []byte{CmdQuery, CmdColor}
}

// BuildQueryScheduleCommand asks for the wake/sleep schedule ("?z").
func BuildQueryScheduleCommand() []byte {
	return []byte{CmdQuery, CmdSchedule}
}

// BuildSetColorCommand encodes each channel as three zero-padded digits,
// e.g. rgb(255, 16, 8) -> "c255016008".
func BuildSetColorCommand(c ColorState) []byte {
	return []byte(fmt.Sprintf("%c%03d%03d%03d", CmdColor, c.Red, c.Green, c.Blue))
}

// BuildSetScheduleCommand always carries the full schedule as four two-digit fields:
// wake hour, wake minute, sleep hour, sleep minute, e.g. "z07302200".
func BuildSetScheduleCommand(s ScheduleState) []byte {
	return []byte(fmt.Sprintf("%c%02d%02d%02d%02d", CmdSchedule, s.WakeHour, s.WakeMinute, s.SleepHour, s.SleepMinute))
}

// BuildSetWakeCommand moves the wake time and keeps the sleep time from prev.
func BuildSetWakeCommand(prev ScheduleState, hour, minute int) []byte {
	next := prev
	next.WakeHour, next.WakeMinute = hour, minute
	return BuildSetScheduleCommand(next)
}

// BuildSetSleepCommand moves the sleep time and keeps the wake time from prev.
func BuildSetSleepCommand(prev ScheduleState, hour, minute int) []byte {
	next := prev
	next.SleepHour, next.SleepMinute = hour, minute
	return BuildSetScheduleCommand(next)
}
