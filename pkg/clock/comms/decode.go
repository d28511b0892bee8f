package comms

// ExtractInt reads frame[start:start+length] as an unsigned base-10 integer.
// Every byte in the range must be a decimal digit.
func ExtractInt(frame string, start, length int) (int, error) {
	if start < 0 || length <= 0 || start+length > len(frame) {
		return 0, &ParseError{Frame: frame, Start: start, Length: length, Reason: "field outside frame"}
	}

	v := 0
	for i := start; i < start+length; i++ {
		c := frame[i]
		if c < '0' || c > '9' {
			return 0, &ParseError{Frame: frame, Start: start, Length: length, Reason: "not a decimal digit"}
		}
		v = v*10 + int(c-'0')
	}
	return v, nil
}

// DecodeColor parses a color response.
func DecodeColor(frame string) (ColorState, error) {
	var ch [3]uint8
	for i, off := range []int{ColorRedOffset, ColorGreenOffset, ColorBlueOffset} {
		v, err := extractRange(frame, off, ColorFieldLen, 255)
		if err != nil {
			return ColorState{}, err
		}
		ch[i] = uint8(v)
	}
	return ColorState{Red: ch[0], Green: ch[1], Blue: ch[2]}, nil
}

// DecodeSchedule parses a schedule response.
func DecodeSchedule(frame string) (ScheduleState, error) {
	var s ScheduleState
	fields := []struct {
		offset int
		limit  int
		dst    *int
	}{
		{WakeHourOffset, 23, &s.WakeHour},
		{WakeMinuteOffset, 59, &s.WakeMinute},
		{SleepHourOffset, 23, &s.SleepHour},
		{SleepMinuteOffset, 59, &s.SleepMinute},
	}

	for _, f := range fields {
		v, err := extractRange(frame, f.offset, TimeFieldLen, f.limit)
		if err != nil {
			return ScheduleState{}, err
		}
		*f.dst = v
	}
	return s, nil
}

func extractRange(frame string, start, length, limit int) (int, error) {
	v, err := ExtractInt(frame, start, length)
	if err != nil {
		return 0, err
	}
	if v > limit {
		return 0, &ParseError{Frame: frame, Start: start, Length: length, Reason: "value out of range"}
	}
	return v, nil
}
