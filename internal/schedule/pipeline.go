package schedule

import "time"

// Options tune the materialization pipeline. Zero values fall back to the
// package defaults.
type Options struct {
	IntervalMinutes int
	HorizonDays     int
}

// BookedSet answers "is this (date, time) already claimed" in O(1).
type BookedSet map[string]struct{}

func NewBookedSet(entries []BookedEntry) BookedSet {
	set := make(BookedSet, len(entries))
	for _, e := range entries {
		set[bookedKey(e.Date, e.Time)] = struct{}{}
	}
	return set
}

func (s BookedSet) Contains(d Date, time24 string) bool {
	_, ok := s[bookedKey(d, time24)]
	return ok
}

func bookedKey(d Date, time24 string) string {
	return d.ISO() + "|" + time24
}

// Schedule is the pipeline's presentation-ready output.
type Schedule struct {
	Days     []DayGroup     `json:"days"`
	Fallback bool           `json:"fallback,omitempty"`
	Skipped  []SkippedBlock `json:"-"`
}

// Build runs the full pipeline: materialize blocks into slots, drop past and
// out-of-horizon slots against the injected now, mark slots that collide with
// existing bookings, and group the remainder by day. It is a pure function of
// its arguments; identical inputs always produce identical output.
//
// The availability marking here is a best-effort courtesy for presentation.
// The binding no-double-booking decision is made by the booking store at
// submission time.
func Build(blocks []AvailabilityBlock, booked []BookedEntry, now time.Time, opts Options) Schedule {
	res := Materialize(blocks, opts.IntervalMinutes)
	eligible := FilterUpcoming(res.Slots, now, opts.HorizonDays)

	set := NewBookedSet(booked)
	for i := range eligible {
		eligible[i].Available = !set.Contains(eligible[i].Date, eligible[i].Time)
	}

	return Schedule{
		Days:     GroupByDay(eligible),
		Fallback: res.Fallback,
		Skipped:  res.Skipped,
	}
}
