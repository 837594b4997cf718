package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/config"
	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

var (
	testProviderID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	testNow        = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
)

type stubRepo struct {
	provider *Provider
	blocks   []schedule.AvailabilityBlock
	booked   []schedule.BookedEntry

	blocksErr error
	bookedErr error
	createErr error

	created []*Booking
}

func (s *stubRepo) GetProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	if s.provider == nil || s.provider.ID != id {
		return nil, ErrProviderNotFound
	}
	return s.provider, nil
}

func (s *stubRepo) ListBlocks(ctx context.Context, providerID uuid.UUID) ([]schedule.AvailabilityBlock, error) {
	if s.blocksErr != nil {
		return nil, s.blocksErr
	}
	return s.blocks, nil
}

func (s *stubRepo) ListBookedEntries(ctx context.Context, providerID uuid.UUID) ([]schedule.BookedEntry, error) {
	if s.bookedErr != nil {
		return nil, s.bookedErr
	}
	return s.booked, nil
}

func (s *stubRepo) CreateBooking(ctx context.Context, b *Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	b.ID = uuid.New()
	b.CreatedAt = testNow
	s.created = append(s.created, b)
	return nil
}

func (s *stubRepo) DeleteBlocksBefore(ctx context.Context, d schedule.Date) (int64, error) {
	return 0, nil
}

func (s *stubRepo) DeleteBookingsBefore(ctx context.Context, d schedule.Date) (int64, error) {
	return 0, nil
}

func testConfig() config.Config {
	return config.Config{
		SlotInterval:   30 * time.Minute,
		HorizonDays:    30,
		FetchTimeout:   time.Second,
		BookedCacheTTL: 15 * time.Second,
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, testConfig(), zap.NewNop()).WithClock(func() time.Time { return testNow })
}

func availabilityBlock(id, start, end string, deviation int) schedule.AvailabilityBlock {
	return schedule.AvailabilityBlock{
		ID:               id,
		ProviderID:       testProviderID,
		Date:             schedule.NewDate(2025, 6, 1),
		StartTime:        start,
		EndTime:          end,
		DeviationMinutes: deviation,
	}
}

func TestGetScheduleHappyPath(t *testing.T) {
	repo := &stubRepo{
		provider: &Provider{ID: testProviderID, Name: "Dr. Silva"},
		blocks:   []schedule.AvailabilityBlock{availabilityBlock("b1", "09:00", "10:00", -5)},
		booked:   []schedule.BookedEntry{{Date: schedule.NewDate(2025, 6, 1), Time: "09:00"}},
	}
	svc := newTestService(repo)

	sched, err := svc.GetSchedule(context.Background(), testProviderID)
	require.NoError(t, err)
	assert.Equal(t, testProviderID, sched.ProviderID)
	assert.False(t, sched.Degraded)
	assert.False(t, sched.Retryable)

	require.Len(t, sched.Days, 1)
	require.Len(t, sched.Days[0].Slots, 2)
	assert.False(t, sched.Days[0].Slots[0].Available)
	assert.True(t, sched.Days[0].Slots[1].Available)
}

func TestGetScheduleUnknownProvider(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.GetSchedule(context.Background(), testProviderID)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

// A failed availability read degrades to an empty, retryable schedule rather
// than failing the call.
func TestGetScheduleDegradesOnBlocksFetchFailure(t *testing.T) {
	repo := &stubRepo{
		provider:  &Provider{ID: testProviderID, Name: "Dr. Silva"},
		blocksErr: errors.New("connection refused"),
	}
	svc := newTestService(repo)

	sched, err := svc.GetSchedule(context.Background(), testProviderID)
	require.NoError(t, err)
	assert.True(t, sched.Degraded)
	assert.True(t, sched.Retryable)
	assert.Empty(t, sched.Days)
}

// A failed booked-set read degrades to "no bookings": slots still render,
// marked available, and the response is flagged retryable.
func TestGetScheduleDegradesOnBookedFetchFailure(t *testing.T) {
	repo := &stubRepo{
		provider:  &Provider{ID: testProviderID, Name: "Dr. Silva"},
		blocks:    []schedule.AvailabilityBlock{availabilityBlock("b1", "09:00", "10:00", 0)},
		bookedErr: context.DeadlineExceeded,
	}
	svc := newTestService(repo)

	sched, err := svc.GetSchedule(context.Background(), testProviderID)
	require.NoError(t, err)
	assert.True(t, sched.Degraded)
	require.Len(t, sched.Days, 1)
	for _, s := range sched.Days[0].Slots {
		assert.True(t, s.Available)
	}
}

func validRequest() Request {
	return Request{
		ProviderID:  testProviderID,
		Date:        schedule.NewDate(2025, 6, 1),
		Time:        "09:30",
		PatientName: "Amal Perera",
	}
}

func TestBookSuccess(t *testing.T) {
	repo := &stubRepo{provider: &Provider{ID: testProviderID}}
	svc := newTestService(repo)

	outcome, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome.Status)
	require.NotNil(t, outcome.Booking)
	assert.NotEqual(t, uuid.Nil, outcome.Booking.ID)
	require.Len(t, repo.created, 1)
}

func TestBookConflict(t *testing.T) {
	repo := &stubRepo{createErr: ErrSlotTaken}
	svc := newTestService(repo)

	outcome, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeConflict, outcome.Status)
	assert.Nil(t, outcome.Booking)
}

func TestBookStoreUnreachable(t *testing.T) {
	repo := &stubRepo{createErr: errors.New("connection reset")}
	svc := newTestService(repo)

	_, err := svc.Book(context.Background(), validRequest())
	require.Error(t, err)
}

func TestBookValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		reason string
	}{
		{"missing provider", func(r *Request) { r.ProviderID = uuid.Nil }, "provider is required"},
		{"missing patient name", func(r *Request) { r.PatientName = "  " }, "patient name is required"},
		{"no slot selected", func(r *Request) { r.Time = "" }, "no slot selected"},
		{"bad slot time", func(r *Request) { r.Time = "25:99" }, "slot time is not a valid time"},
		{"past date", func(r *Request) { r.Date = schedule.NewDate(2025, 5, 31) }, "slot date is in the past"},
		{"passed time today", func(r *Request) { r.Time = "07:00" }, "slot time has already passed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{}
			svc := newTestService(repo)

			req := validRequest()
			tt.mutate(&req)

			outcome, err := svc.Book(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, OutcomeValidationFailed, outcome.Status)
			assert.Equal(t, tt.reason, outcome.Reason)
			assert.Empty(t, repo.created, "validation failure must never touch the store")
		})
	}
}
