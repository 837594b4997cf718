package schedule

import (
	"github.com/google/uuid"
)

// DeviationTag warns patients that a provider tends to run ahead of or behind
// their declared schedule.
type DeviationTag string

const (
	DeviationEarly  DeviationTag = "early"
	DeviationOnTime DeviationTag = "on_time"
	DeviationDelay  DeviationTag = "delay"
)

// ClassifyDeviation maps a block's signed minute offset to its tag. The offset
// applies uniformly to every slot carved from the block.
func ClassifyDeviation(minutes int) DeviationTag {
	switch {
	case minutes > 0:
		return DeviationEarly
	case minutes < 0:
		return DeviationDelay
	default:
		return DeviationOnTime
	}
}

// AvailabilityBlock is a provider-declared contiguous range on one date during
// which appointments may be offered. Blocks are owned by the provider
// availability subsystem and are read-only here.
type AvailabilityBlock struct {
	ID               string    `json:"id"`
	ProviderID       uuid.UUID `json:"provider_id"`
	Date             Date      `json:"date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	DeviationMinutes int       `json:"deviation_minutes"`
}

// Slot is a discrete bookable unit derived from a block. Slots are ephemeral:
// regenerated on every materialization pass, never persisted.
type Slot struct {
	ID               string       `json:"id"`
	BlockID          string       `json:"block_id"`
	Date             Date         `json:"date"`
	Time             string       `json:"time"`  // zero-padded 24h, e.g. "09:30"
	Label            string       `json:"label"` // 12h display, e.g. "9:30 AM"
	DeviationTag     DeviationTag `json:"deviation_tag"`
	DeviationMinutes int          `json:"deviation_minutes"`
	Degraded         bool         `json:"degraded,omitempty"`
	Available        bool         `json:"available"`
}

// BookedEntry is the minimal projection of a confirmed appointment needed to
// mark a slot unavailable.
type BookedEntry struct {
	Date Date   `json:"date"`
	Time string `json:"time"`
}

var slotNamespace = uuid.MustParse("8f9e4a6a-1b6e-4c2f-9d35-70f1a2b3c4d5")

// SlotID derives a deterministic identifier from the source block and the
// slot's 24h time, so repeated materializations of the same inputs yield
// comparable slot sets.
func SlotID(blockID, time24 string) string {
	return uuid.NewSHA1(slotNamespace, []byte(blockID+"|"+time24)).String()
}

func newSlot(b AvailabilityBlock, c Clock, degraded bool) Slot {
	t24 := c.Format24()
	return Slot{
		ID:               SlotID(b.ID, t24),
		BlockID:          b.ID,
		Date:             b.Date,
		Time:             t24,
		Label:            c.Label12(),
		DeviationTag:     ClassifyDeviation(b.DeviationMinutes),
		DeviationMinutes: b.DeviationMinutes,
		Degraded:         degraded,
	}
}
