package schedule

import (
	"errors"
	"fmt"
)

const DefaultIntervalMinutes = 30

var (
	ErrDegenerateBlock = errors.New("block end is not after its start")
)

// SkippedBlock reports a block that contributed no slots and why. Skips are
// non-fatal: the rest of the batch still materializes.
type SkippedBlock struct {
	BlockID string
	Reason  error
}

// MaterializeResult carries the slot set plus everything the caller needs to
// know about how it was produced. Fallback is true when the block-start
// fallback strategy ran instead of the primary interval expansion.
type MaterializeResult struct {
	Slots    []Slot
	Skipped  []SkippedBlock
	Fallback bool
}

// Materialize expands availability blocks into fixed-interval slots.
//
// Primary strategy: for each block, parse start/end and emit one slot every
// intervalMinutes from start up to (but never past) end. A block whose times
// fail to parse, or whose end is not after its start, is skipped and reported.
// A valid block yields exactly floor((end-start)/interval) slots, strictly
// increasing in time.
//
// Block-start fallback: if the primary strategy produces zero slots while the
// input is non-empty (every block shorter than one interval, say), each block
// that still parses cleanly yields a single slot at its start time, flagged
// degraded. Callers never silently get nothing when data exists.
func Materialize(blocks []AvailabilityBlock, intervalMinutes int) MaterializeResult {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultIntervalMinutes
	}

	var res MaterializeResult
	for _, b := range blocks {
		slots, skip := expandBlock(b, intervalMinutes)
		if skip != nil {
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		res.Slots = append(res.Slots, slots...)
	}

	if len(res.Slots) == 0 && len(blocks) > 0 {
		res.Slots = blockStartFallback(blocks)
		res.Fallback = len(res.Slots) > 0
	}

	return res
}

func expandBlock(b AvailabilityBlock, intervalMinutes int) ([]Slot, *SkippedBlock) {
	start, end, skip := parseBlockBounds(b)
	if skip != nil {
		return nil, skip
	}

	var slots []Slot
	for m := start; m+intervalMinutes <= end; m += intervalMinutes {
		slots = append(slots, newSlot(b, ClockFromMinuteOfDay(m), false))
	}
	return slots, nil
}

// blockStartFallback emits one degraded slot per block at the block's start
// time. Blocks that fail to parse or are degenerate still contribute nothing.
func blockStartFallback(blocks []AvailabilityBlock) []Slot {
	var slots []Slot
	for _, b := range blocks {
		start, _, skip := parseBlockBounds(b)
		if skip != nil {
			continue
		}
		slots = append(slots, newSlot(b, ClockFromMinuteOfDay(start), true))
	}
	return slots
}

func parseBlockBounds(b AvailabilityBlock) (startMin, endMin int, skip *SkippedBlock) {
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return 0, 0, &SkippedBlock{BlockID: b.ID, Reason: fmt.Errorf("start time: %w", err)}
	}
	end, err := ParseClock(b.EndTime)
	if err != nil {
		return 0, 0, &SkippedBlock{BlockID: b.ID, Reason: fmt.Errorf("end time: %w", err)}
	}
	startMin = start.MinuteOfDay()
	endMin = end.MinuteOfDay()
	if endMin <= startMin {
		return 0, 0, &SkippedBlock{BlockID: b.ID, Reason: ErrDegenerateBlock}
	}
	return startMin, endMin, nil
}
