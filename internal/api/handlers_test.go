package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/booking"
	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

var testProviderID = uuid.MustParse("44444444-4444-4444-4444-444444444444")

type stubService struct {
	schedule    *booking.ProviderSchedule
	scheduleErr error
	outcome     booking.Outcome
	bookErr     error
	lastRequest *booking.Request
}

func (s *stubService) GetSchedule(ctx context.Context, providerID uuid.UUID) (*booking.ProviderSchedule, error) {
	if s.scheduleErr != nil {
		return nil, s.scheduleErr
	}
	return s.schedule, nil
}

func (s *stubService) Book(ctx context.Context, req booking.Request) (booking.Outcome, error) {
	s.lastRequest = &req
	if s.bookErr != nil {
		return booking.Outcome{}, s.bookErr
	}
	return s.outcome, nil
}

func newTestRouter(svc BookingService) http.Handler {
	r := chi.NewRouter()
	validate := validator.New()
	r.Get("/providers/{providerID}/schedule", getScheduleHandler(svc))
	r.Post("/bookings", createBookingHandler(svc, validate))
	return r
}

func TestGetScheduleHandler(t *testing.T) {
	svc := &stubService{schedule: &booking.ProviderSchedule{
		ProviderID: testProviderID,
		Days: []schedule.DayGroup{{
			Date:  schedule.NewDate(2025, 6, 1),
			Label: "Sunday, June 1",
			Slots: []schedule.Slot{{Time: "09:00", Label: "9:00 AM", Available: true}},
		}},
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/providers/"+testProviderID.String()+"/schedule", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp booking.ProviderSchedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testProviderID, resp.ProviderID)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "Sunday, June 1", resp.Days[0].Label)
}

func TestGetScheduleHandlerBadID(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/providers/not-a-uuid/schedule", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetScheduleHandlerUnknownProvider(t *testing.T) {
	router := newTestRouter(&stubService{scheduleErr: booking.ErrProviderNotFound})

	req := httptest.NewRequest(http.MethodGet, "/providers/"+testProviderID.String()+"/schedule", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func postBooking(t *testing.T, router http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validPayload() CreateBookingRequest {
	return CreateBookingRequest{
		ProviderID:  testProviderID.String(),
		Date:        "2025-06-01",
		Time:        "09:30",
		PatientName: "Amal Perera",
	}
}

func TestCreateBookingHandlerSuccess(t *testing.T) {
	svc := &stubService{outcome: booking.Outcome{
		Status: booking.OutcomeSuccess,
		Booking: &booking.Booking{
			ID:          uuid.New(),
			ProviderID:  testProviderID,
			Date:        schedule.NewDate(2025, 6, 1),
			Time:        "09:30",
			PatientName: "Amal Perera",
		},
	}}
	router := newTestRouter(svc)

	rec := postBooking(t, router, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-01", resp.Date)
	assert.Equal(t, "09:30", resp.Time)

	require.NotNil(t, svc.lastRequest)
	assert.Equal(t, schedule.NewDate(2025, 6, 1), svc.lastRequest.Date)
}

func TestCreateBookingHandlerConflict(t *testing.T) {
	svc := &stubService{outcome: booking.Outcome{
		Status: booking.OutcomeConflict,
		Reason: "slot was claimed by another booking",
	}}
	router := newTestRouter(svc)

	rec := postBooking(t, router, validPayload())
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slot_conflict", resp.Error)
}

func TestCreateBookingHandlerDomainValidation(t *testing.T) {
	svc := &stubService{outcome: booking.Outcome{
		Status: booking.OutcomeValidationFailed,
		Reason: "slot date is in the past",
	}}
	router := newTestRouter(svc)

	rec := postBooking(t, router, validPayload())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateBookingHandlerPayloadValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateBookingRequest)
		status int
	}{
		{"missing provider", func(r *CreateBookingRequest) { r.ProviderID = "" }, http.StatusUnprocessableEntity},
		{"provider not a uuid", func(r *CreateBookingRequest) { r.ProviderID = "nope" }, http.StatusUnprocessableEntity},
		{"bad date format", func(r *CreateBookingRequest) { r.Date = "06/01/2025" }, http.StatusUnprocessableEntity},
		{"missing time", func(r *CreateBookingRequest) { r.Time = "" }, http.StatusUnprocessableEntity},
		{"short patient name", func(r *CreateBookingRequest) { r.PatientName = "A" }, http.StatusUnprocessableEntity},
		{"bad email", func(r *CreateBookingRequest) { email := "not-an-email"; r.PatientEmail = &email }, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			router := newTestRouter(svc)

			payload := validPayload()
			tt.mutate(&payload)

			rec := postBooking(t, router, payload)
			assert.Equal(t, tt.status, rec.Code)
			assert.Nil(t, svc.lastRequest, "invalid payload must never reach the service")
		})
	}
}

func TestCreateBookingHandlerBadJSON(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingHandlerStoreDown(t *testing.T) {
	svc := &stubService{bookErr: context.DeadlineExceeded}
	router := newTestRouter(svc)

	rec := postBooking(t, router, validPayload())
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Retryable)
}
