package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadClock = errors.New("unrecognized time format")

// Clock is a wall-clock time of day in 24-hour terms.
type Clock struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// ParseClock normalizes a provider-entered time string into a Clock. Accepted
// forms are "H:MM", "HH:MM", "H:MMam" and "HH:MM PM"; the meridiem token is
// case-insensitive and may be preceded by a space. The function is pure: no
// locale, no global clock.
func ParseClock(raw string) (Clock, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	meridiem := ""
	for _, token := range []string{"am", "pm"} {
		if strings.HasSuffix(s, token) {
			meridiem = token
			s = strings.TrimSpace(strings.TrimSuffix(s, token))
			break
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}

	if minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: minute out of range in %q", ErrBadClock, raw)
	}

	switch meridiem {
	case "":
		if hour < 0 || hour > 23 {
			return Clock{}, fmt.Errorf("%w: hour out of range in %q", ErrBadClock, raw)
		}
	default:
		if hour < 1 || hour > 12 {
			return Clock{}, fmt.Errorf("%w: hour out of range in %q", ErrBadClock, raw)
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		if meridiem == "pm" && hour != 12 {
			hour += 12
		}
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// ClockFromMinuteOfDay is the inverse of MinuteOfDay for values in [0, 1440).
func ClockFromMinuteOfDay(m int) Clock {
	return Clock{Hour: m / 60, Minute: m % 60}
}

func (c Clock) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

// Format24 renders the zero-padded 24-hour form, e.g. "09:30". Lexicographic
// ordering of this form matches chronological ordering.
func (c Clock) Format24() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Label12 renders the 12-hour display form, e.g. "9:30 AM".
func (c Clock) Label12() string {
	suffix := "AM"
	hour := c.Hour
	if hour >= 12 {
		suffix = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute, suffix)
}
