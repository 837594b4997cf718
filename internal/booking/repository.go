package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrSlotTaken        = errors.New("slot already has a confirmed booking")
)

// Repository contains all store interactions needed by the service.
type Repository interface {
	GetProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error)

	// Availability source: provider-declared blocks, read-only here.
	ListBlocks(ctx context.Context, providerID uuid.UUID) ([]schedule.AvailabilityBlock, error)

	// Booked-entries source: the (date, time) pairs already claimed.
	ListBookedEntries(ctx context.Context, providerID uuid.UUID) ([]schedule.BookedEntry, error)

	// CreateBooking inserts the claim. The store's unique constraint on
	// (provider_id, slot_date, slot_time) issues the binding decision;
	// a losing insert returns ErrSlotTaken.
	CreateBooking(ctx context.Context, b *Booking) error

	// Retention worker
	DeleteBlocksBefore(ctx context.Context, d schedule.Date) (int64, error)
	DeleteBookingsBefore(ctx context.Context, d schedule.Date) (int64, error)
}
