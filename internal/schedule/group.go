package schedule

import "sort"

// DayGroup is one calendar day's worth of slots, ready for presentation.
type DayGroup struct {
	Date  Date   `json:"date"`
	Label string `json:"label"`
	Slots []Slot `json:"slots"`
}

// GroupByDay buckets slots by civil date and orders everything for display:
// groups ascending by date, slots within a group ascending by their
// zero-padded 24h time (lexicographic order is chronological order for that
// format), with slot ID as a tiebreak so output is fully deterministic.
func GroupByDay(slots []Slot) []DayGroup {
	buckets := make(map[Date][]Slot)
	for _, s := range slots {
		buckets[s.Date] = append(buckets[s.Date], s)
	}

	dates := make([]Date, 0, len(buckets))
	for d := range buckets {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		daySlots := buckets[d]
		sort.Slice(daySlots, func(i, j int) bool {
			if daySlots[i].Time != daySlots[j].Time {
				return daySlots[i].Time < daySlots[j].Time
			}
			return daySlots[i].ID < daySlots[j].ID
		})
		groups = append(groups, DayGroup{
			Date:  d,
			Label: d.Label(),
			Slots: daySlots,
		})
	}
	return groups
}
