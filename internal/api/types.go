package api

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ProviderID   string  `json:"provider_id" validate:"required,uuid"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string  `json:"time" validate:"required"`
	PatientName  string  `json:"patient_name" validate:"required,min=2,max=120"`
	PatientEmail *string `json:"patient_email,omitempty" validate:"omitempty,email"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID           uuid.UUID `json:"id"`
	ProviderID   uuid.UUID `json:"provider_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	PatientName  string    `json:"patient_name"`
	PatientEmail *string   `json:"patient_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
