package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

var (
	ErrSlotUnavailable  = errors.New("slot is marked unavailable")
	ErrNoSelection      = errors.New("no slot selected")
	ErrSlotLostConflict = errors.New("slot lost a booking race this session, pick a different slot")
)

// PatientInfo is the caller-owned part of a submission payload.
type PatientInfo struct {
	Name  string
	Email *string
	Notes *string
}

// Session is one booker's client-side state machine over the slot pool:
// at most one slot selected at a time, selection cleared on provider change
// or reset, and a slot that lost a race is never silently resubmitted.
//
// A session is not safe for concurrent use; each booker gets their own.
// Abandoning a session at any point before Submit has zero side effects.
type Session struct {
	providerID uuid.UUID
	selection  *schedule.Slot
	conflicted map[string]struct{}
}

func NewSession(providerID uuid.UUID) *Session {
	return &Session{
		providerID: providerID,
		conflicted: make(map[string]struct{}),
	}
}

// Select records the slot the booker picked. Slots already marked unavailable
// by the booked-set check, and slots that lost a race earlier in this session,
// are rejected up front.
func (s *Session) Select(slot schedule.Slot) error {
	if !slot.Available {
		return ErrSlotUnavailable
	}
	if _, lost := s.conflicted[sessionSlotKey(slot.Date, slot.Time)]; lost {
		return ErrSlotLostConflict
	}
	copied := slot
	s.selection = &copied
	return nil
}

// Selection returns the currently selected slot, or nil.
func (s *Session) Selection() *schedule.Slot {
	return s.selection
}

// Reset clears the selection.
func (s *Session) Reset() {
	s.selection = nil
}

// SetProvider switches the session to another provider. Any selection and
// conflict history belongs to the old provider's slot pool and is dropped.
func (s *Session) SetProvider(providerID uuid.UUID) {
	if providerID == s.providerID {
		return
	}
	s.providerID = providerID
	s.selection = nil
	s.conflicted = make(map[string]struct{})
}

// Submit sends the selected slot to the service. On Conflict the selection is
// cleared and the slot is remembered as lost, forcing the booker to re-pick;
// on ValidationFailed the selection is simply cleared; on Success the session
// is left empty, ready for another booking. Once Submit is called the request
// is not cancellable from the session's side; it resolves to exactly one
// outcome or a transport error.
func (s *Session) Submit(ctx context.Context, svc *Service, patient PatientInfo) (Outcome, error) {
	if s.selection == nil {
		return validationFailed(ErrNoSelection.Error()), nil
	}

	slot := *s.selection
	if _, lost := s.conflicted[sessionSlotKey(slot.Date, slot.Time)]; lost {
		s.selection = nil
		return validationFailed(ErrSlotLostConflict.Error()), nil
	}

	outcome, err := svc.Book(ctx, Request{
		ProviderID:   s.providerID,
		Date:         slot.Date,
		Time:         slot.Time,
		PatientName:  patient.Name,
		PatientEmail: patient.Email,
		Notes:        patient.Notes,
	})
	if err != nil {
		// Transport failure: the selection survives so the booker can retry
		// the same submission once the store is reachable again.
		return Outcome{}, err
	}

	switch outcome.Status {
	case OutcomeSuccess:
		s.selection = nil
	case OutcomeConflict:
		s.conflicted[sessionSlotKey(slot.Date, slot.Time)] = struct{}{}
		s.selection = nil
	case OutcomeValidationFailed:
		s.selection = nil
	}

	return outcome, nil
}

func sessionSlotKey(d schedule.Date, time24 string) string {
	return d.ISO() + "|" + time24
}
