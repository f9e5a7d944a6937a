package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MaxMinutes = 99
	MaxSeconds = 99
)

// ErrInvalidInput is returned when the input does not describe a positive
// duration.
var ErrInvalidInput = errors.New("invalid time input")

// Input is a parsed minutes/seconds pair. Seconds may exceed 59; 1:90 is a
// valid two and a half minutes.
type Input struct {
	Minutes int
	Seconds int
}

func (in Input) Duration() time.Duration {
	return time.Duration(in.Minutes*60+in.Seconds) * time.Second
}

// String renders the input as MM:SS.
func (in Input) String() string {
	return fmt.Sprintf("%02d:%02d", in.Minutes, in.Seconds)
}

// ParseInput interprets free-form timer input. Characters other than digits
// and ':' are dropped, then:
//
//	"MM:SS"         minutes and seconds
//	1-2 digits      seconds ("45" is 0:45)
//	3-4 digits      MMSS ("130" is 1:30)
//	5+ digits       total seconds, capped at 99:99
//
// Values are clamped to 99 minutes and 99 seconds. A zero total is rejected.
func ParseInput(raw string) (Input, error) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, raw)
	if clean == "" {
		return Input{}, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}

	var in Input
	var ok bool
	if strings.Contains(clean, ":") {
		in, ok = parseColon(clean)
	} else {
		in, ok = parseNumeric(clean)
	}
	if !ok || in.Minutes*60+in.Seconds <= 0 {
		return Input{}, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
	return in, nil
}

func parseColon(s string) (Input, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return Input{}, false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return Input{}, false
	}
	sec, err := strconv.Atoi(parts[1])
	if err != nil {
		return Input{}, false
	}
	return clamp(m, sec), true
}

func parseNumeric(s string) (Input, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return Input{}, false
	}
	switch {
	case v <= 99:
		return clamp(0, v), true
	case v <= 9999:
		return clamp(v/100, v%100), true
	default:
		total := min(v, MaxMinutes*60+MaxSeconds)
		return clamp(total/60, total%60), true
	}
}

func clamp(minutes, seconds int) Input {
	minutes = max(0, minutes)
	seconds = max(0, seconds)
	if minutes > MaxMinutes {
		return Input{Minutes: MaxMinutes, Seconds: MaxSeconds}
	}
	return Input{Minutes: minutes, Seconds: min(seconds, MaxSeconds)}
}
