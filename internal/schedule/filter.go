package schedule

import "time"

const DefaultHorizonDays = 30

// FilterUpcoming keeps slots that are still in the future relative to now and
// fall within the booking horizon. "now" is injected rather than read from the
// wall clock, and the filter is recomputed on every call; eligibility is never
// cached because now moves continuously.
//
// A slot is eligible when its date is after today, or it is today and its time
// of day has not yet passed, and its date is at most horizonDays out.
func FilterUpcoming(slots []Slot, now time.Time, horizonDays int) []Slot {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	today := DateOf(now)
	cutoff := today.AddDays(horizonDays)
	nowTime := Clock{Hour: now.Hour(), Minute: now.Minute()}.Format24()

	var eligible []Slot
	for _, s := range slots {
		if s.Date.After(cutoff) {
			continue
		}
		if s.Date.Before(today) {
			continue
		}
		if s.Date.Equal(today) && s.Time < nowTime {
			continue
		}
		eligible = append(eligible, s)
	}
	return eligible
}
