package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/config"
	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

// Service drives availability materialization and conflict-checked booking.
// The schedule pipeline itself is pure; the service owns the three suspension
// points around it: the two bounded read fetches and the one submission write.
type Service struct {
	repo Repository
	cfg  config.Config
	log  *zap.Logger

	// now is injected so the whole pipeline stays a pure function of its
	// inputs under test.
	now func() time.Time
}

func NewService(repo Repository, cfg config.Config, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		log:  log,
		now:  time.Now,
	}
}

// WithClock overrides the service's time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetSchedule fetches the provider's blocks and booked entries, runs the
// materialization pipeline, and returns the grouped, availability-marked
// result. Both reads are bounded by the configured fetch timeout; a failed or
// timed-out read degrades to empty data rather than failing the whole call,
// and the response is flagged retryable so the caller can offer a refresh.
func (s *Service) GetSchedule(ctx context.Context, providerID uuid.UUID) (*ProviderSchedule, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load provider: %w", err)
	}

	degraded := false

	blocks, err := s.fetchBlocks(ctx, providerID)
	if err != nil {
		s.log.Warn("availability fetch failed, continuing with zero blocks",
			zap.String("provider_id", providerID.String()),
			zap.Error(err))
		blocks = nil
		degraded = true
	}

	booked, err := s.fetchBooked(ctx, providerID)
	if err != nil {
		s.log.Warn("booked-entries fetch failed, continuing with zero bookings",
			zap.String("provider_id", providerID.String()),
			zap.Error(err))
		booked = nil
		degraded = true
	}

	sched := schedule.Build(blocks, booked, s.now(), schedule.Options{
		IntervalMinutes: int(s.cfg.SlotInterval.Minutes()),
		HorizonDays:     s.cfg.HorizonDays,
	})

	for _, skipped := range sched.Skipped {
		s.log.Warn("availability block skipped",
			zap.String("provider_id", providerID.String()),
			zap.String("block_id", skipped.BlockID),
			zap.Error(skipped.Reason))
	}
	if sched.Fallback {
		s.log.Warn("materialization fell back to block-start slots",
			zap.String("provider_id", providerID.String()),
			zap.Int("block_count", len(blocks)))
	}

	return &ProviderSchedule{
		ProviderID: providerID,
		Days:       sched.Days,
		Fallback:   sched.Fallback,
		Degraded:   degraded,
		Retryable:  degraded,
	}, nil
}

func (s *Service) fetchBlocks(ctx context.Context, providerID uuid.UUID) ([]schedule.AvailabilityBlock, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	return s.repo.ListBlocks(fetchCtx, providerID)
}

func (s *Service) fetchBooked(ctx context.Context, providerID uuid.UUID) ([]schedule.BookedEntry, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	return s.repo.ListBookedEntries(fetchCtx, providerID)
}

// Book submits a tentative claim on (provider, date, time). Validation
// failures are decided locally before any store call. The binding
// accept/reject decision belongs to the store's atomic uniqueness constraint:
// a losing insert surfaces as a Conflict outcome, and the store is left
// unmodified by the losing request. A non-nil error means the store itself
// was unreachable; that is retryable and distinct from every outcome.
func (s *Service) Book(ctx context.Context, req Request) (Outcome, error) {
	if reason, ok := s.validate(req); !ok {
		return validationFailed(reason), nil
	}

	b := &Booking{
		ProviderID:   req.ProviderID,
		Date:         req.Date,
		Time:         req.Time,
		PatientName:  strings.TrimSpace(req.PatientName),
		PatientEmail: req.PatientEmail,
		Notes:        req.Notes,
	}

	if err := s.repo.CreateBooking(ctx, b); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.log.Info("booking lost slot race",
				zap.String("provider_id", req.ProviderID.String()),
				zap.String("date", req.Date.ISO()),
				zap.String("time", req.Time))
			return conflictOutcome(), nil
		}
		return Outcome{}, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("booking confirmed",
		zap.String("booking_id", b.ID.String()),
		zap.String("provider_id", req.ProviderID.String()),
		zap.String("date", req.Date.ISO()),
		zap.String("time", req.Time))

	return successOutcome(b), nil
}

func (s *Service) validate(req Request) (reason string, ok bool) {
	if req.ProviderID == uuid.Nil {
		return "provider is required", false
	}
	if strings.TrimSpace(req.PatientName) == "" {
		return "patient name is required", false
	}
	if req.Time == "" {
		return "no slot selected", false
	}
	if _, err := schedule.ParseClock(req.Time); err != nil {
		return "slot time is not a valid time", false
	}

	today := schedule.DateOf(s.now())
	if req.Date.Before(today) {
		return "slot date is in the past", false
	}
	if req.Date.Equal(today) {
		nowTime := fmt.Sprintf("%02d:%02d", s.now().Hour(), s.now().Minute())
		if req.Time < nowTime {
			return "slot time has already passed", false
		}
	}

	return "", true
}

// PurgePast removes availability blocks and bookings dated before today.
// Intended to be called periodically by the retention worker.
func (s *Service) PurgePast(ctx context.Context) error {
	today := schedule.DateOf(s.now())

	blocks, err := s.repo.DeleteBlocksBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("purge past blocks: %w", err)
	}
	bookings, err := s.repo.DeleteBookingsBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("purge past bookings: %w", err)
	}

	s.log.Info("retention purge complete",
		zap.Int64("blocks_deleted", blocks),
		zap.Int64("bookings_deleted", bookings))

	return nil
}
