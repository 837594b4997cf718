package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/booking"
	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

// BookingService is the slice of the booking service the handlers need.
type BookingService interface {
	GetSchedule(ctx context.Context, providerID uuid.UUID) (*booking.ProviderSchedule, error)
	Book(ctx context.Context, req booking.Request) (booking.Outcome, error)
}

func getScheduleHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "providerID")
		providerID, err := uuid.Parse(idStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "providerID must be a valid UUID")
			return
		}

		sched, err := svc.GetSchedule(r.Context(), providerID)
		if err != nil {
			if errors.Is(err, booking.ErrProviderNotFound) {
				writeError(w, http.StatusNotFound, "provider_not_found", err.Error())
				return
			}
			writeRetryableError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, sched)
	}
}

func createBookingHandler(svc BookingService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
			return
		}

		providerID, err := uuid.Parse(req.ProviderID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "provider_id must be a valid UUID")
			return
		}

		date, err := schedule.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", "date must be yyyy-mm-dd")
			return
		}

		outcome, err := svc.Book(r.Context(), booking.Request{
			ProviderID:   providerID,
			Date:         date,
			Time:         req.Time,
			PatientName:  req.PatientName,
			PatientEmail: req.PatientEmail,
			Notes:        req.Notes,
		})
		if err != nil {
			writeRetryableError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}

		switch outcome.Status {
		case booking.OutcomeSuccess:
			b := outcome.Booking
			writeJSON(w, http.StatusCreated, BookingResponse{
				ID:           b.ID,
				ProviderID:   b.ProviderID,
				Date:         b.Date.ISO(),
				Time:         b.Time,
				PatientName:  b.PatientName,
				PatientEmail: b.PatientEmail,
				CreatedAt:    b.CreatedAt,
			})
		case booking.OutcomeConflict:
			writeError(w, http.StatusConflict, "slot_conflict", outcome.Reason)
		case booking.OutcomeValidationFailed:
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", outcome.Reason)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "unknown booking outcome")
		}
	}
}
