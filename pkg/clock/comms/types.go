package comms

import "fmt"

// ColorState is the clock's current display color.
type ColorState struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// Hex returns the color as "#rrggbb", the form color pickers are seeded with.
func (c ColorState) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

func (c ColorState) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.Red, c.Green, c.Blue)
}

// ScheduleState is the wake/sleep schedule as last reported by the clock.
type ScheduleState struct {
	WakeHour    int
	WakeMinute  int
	SleepHour   int
	SleepMinute int
}

// WakeMinutesSinceMidnight is used for ordering checks only.
func (s ScheduleState) WakeMinutesSinceMidnight() int {
	return s.WakeHour*60 + s.WakeMinute
}

// SleepMinutesSinceMidnight is used for ordering checks only.
func (s ScheduleState) SleepMinutesSinceMidnight() int {
	return s.SleepHour*60 + s.SleepMinute
}

// Wake returns the wake time, e.g. to pre-fill a time picker.
func (s ScheduleState) Wake() (hour, minute int) {
	return s.WakeHour, s.WakeMinute
}

// Sleep returns the sleep time.
func (s ScheduleState) Sleep() (hour, minute int) {
	return s.SleepHour, s.SleepMinute
}

func (s ScheduleState) String() string {
	return fmt.Sprintf("wake %02d:%02d, sleep %02d:%02d", s.WakeHour, s.WakeMinute, s.SleepHour, s.SleepMinute)
}
