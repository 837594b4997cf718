package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

// Provider is a clinician whose availability can be booked against.
type Provider struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking is a confirmed claim on one (provider, date, time) triple. The
// store enforces uniqueness of that triple; a row existing means the claim
// won its race.
type Booking struct {
	ID           uuid.UUID
	ProviderID   uuid.UUID
	Date         schedule.Date
	Time         string // zero-padded 24h
	PatientName  string
	PatientEmail *string
	Notes        *string
	CreatedAt    time.Time
}

// Request is a submission attempt: a tentative claim the store either accepts
// or rejects.
type Request struct {
	ProviderID   uuid.UUID
	Date         schedule.Date
	Time         string
	PatientName  string
	PatientEmail *string
	Notes        *string
}

type OutcomeStatus string

const (
	OutcomeSuccess          OutcomeStatus = "success"
	OutcomeConflict         OutcomeStatus = "conflict"
	OutcomeValidationFailed OutcomeStatus = "validation_failed"
)

// Outcome is the result of one submission attempt. Success carries the stored
// booking; ValidationFailed carries the reason and guarantees the store was
// never touched; Conflict means another session claimed the slot first and the
// losing request left the store unmodified.
type Outcome struct {
	Status  OutcomeStatus
	Reason  string
	Booking *Booking
}

func successOutcome(b *Booking) Outcome {
	return Outcome{Status: OutcomeSuccess, Booking: b}
}

func conflictOutcome() Outcome {
	return Outcome{Status: OutcomeConflict, Reason: "slot was claimed by another booking"}
}

func validationFailed(reason string) Outcome {
	return Outcome{Status: OutcomeValidationFailed, Reason: reason}
}

// ProviderSchedule is the presentation-boundary payload: the grouped slot
// list plus degradation flags. Degraded is set when a read fetch failed or
// timed out and the pipeline ran on empty data; such a response is safe to
// retry.
type ProviderSchedule struct {
	ProviderID uuid.UUID           `json:"provider_id"`
	Days       []schedule.DayGroup `json:"days"`
	Fallback   bool                `json:"fallback,omitempty"`
	Degraded   bool                `json:"degraded,omitempty"`
	Retryable  bool                `json:"retryable,omitempty"`
}
