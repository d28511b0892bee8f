package comms

import "fmt"

// User-facing rejection messages.
const (
	MsgWakeAfterSleep  = "Cannot set wake up after sleep time"
	MsgSleepBeforeWake = "Cannot set sleep after wake up time"
)

// CheckWake rejects a wake time at or after the current sleep time.
func CheckWake(prev ScheduleState, hour, minute int) error {
	if err := checkClockTime(hour, minute); err != nil {
		return err
	}
	if 60*hour+minute >= prev.SleepMinutesSinceMidnight() {
		return &ValidationError{Message: MsgWakeAfterSleep}
	}
	return nil
}

// CheckSleep rejects a sleep time at or before the current wake time.
func CheckSleep(prev ScheduleState, hour, minute int) error {
	if err := checkClockTime(hour, minute); err != nil {
		return err
	}
	if 60*hour+minute <= prev.WakeMinutesSinceMidnight() {
		return &ValidationError{Message: MsgSleepBeforeWake}
	}
	return nil
}

func checkClockTime(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return &ValidationError{Message: fmt.Sprintf("Hour must be 0-23, got %d", hour)}
	}
	if minute < 0 || minute > 59 {
		return &ValidationError{Message: fmt.Sprintf("Minute must be 0-59, got %d", minute)}
	}
	return nil
}
